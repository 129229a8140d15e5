package basic

import (
	"context"
	"database/sql"
	"io"

	core "ordermgr/data/db"
	"ordermgr/data/db/dialect"
)

// queryer *sql.Conn 与 *sql.Tx 的公共方法
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Conn 单连接实现，执行前按方言改写占位符
type Conn struct {
	q       queryer
	closer  io.Closer
	driver  string
	dialect dialect.Dialect
}

var _ core.IConn = (*Conn)(nil)

func (c *Conn) Query(ctx context.Context, query string, args ...any) (core.IRows, error) {
	rows, err := c.q.QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) core.IRow {
	return &Row{row: c.q.QueryRowContext(ctx, c.dialect.Rebind(query), args...)}
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

// GetDialectName 实现 core.IDialectNameProvider
func (c *Conn) GetDialectName() string {
	return c.driver
}
