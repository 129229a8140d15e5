package basic

import (
	"context"
	"database/sql"

	core "ordermgr/data/db"
)

// Tx 事务实现
//
// Tx 同时是 IConnectionProvider：Acquire 返回事务自身，Release 不做任何事，
// 连接在 Commit/Rollback 时归还连接池。不支持嵌套事务。
type Tx struct {
	Conn
	tx *sql.Tx
}

var _ core.ITransaction = (*Tx)(nil)

func (t *Tx) Acquire(ctx context.Context) (core.IConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tx) Release(conn core.IConn) error { return nil }

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }
