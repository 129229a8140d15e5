// Package basic 基于 database/sql 的连接提供者实现
//
// 调用方必须确保所配置的 Driver 已通过空导入注册（例如 `_ "modernc.org/sqlite"`），
// basic 层只负责最小封装。
package basic

import (
	"context"
	"database/sql"
	"time"

	core "ordermgr/data/db"
	"ordermgr/data/db/dialect"
	"ordermgr/errors"
)

// DB 基于 *sql.DB 连接池的 IConnectionProvider 与 ITxBeginner 实现
type DB struct {
	db      *sql.DB
	driver  string
	dialect dialect.Dialect
}

var (
	_ core.IConnectionProvider = (*DB)(nil)
	_ core.ITxBeginner         = (*DB)(nil)
)

// New 根据 core.DBConfig 打开连接池并做可用性检查
func New(config core.DBConfig) (*DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = "sqlite"
	}

	db, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConnection, "open database failed")
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}
	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.ConnMaxIdleTime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.ErrCodeConnection, "ping database failed")
	}

	return Wrap(db, driver), nil
}

// Wrap 包装已打开的 *sql.DB（测试中配合 go-sqlmock 使用）
func Wrap(db *sql.DB, driver string) *DB {
	return &DB{db: db, driver: driver, dialect: dialect.New(driver)}
}

// Acquire 从连接池检出一个专用连接，调用方必须 Release
func (d *DB) Acquire(ctx context.Context) (core.IConn, error) {
	c, err := d.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &Conn{q: c, closer: c, driver: d.driver, dialect: d.dialect}, nil
}

// Release 将连接归还连接池
func (d *DB) Release(conn core.IConn) error {
	c, ok := conn.(*Conn)
	if !ok || c.closer == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "connection was not acquired from this provider")
	}
	return c.closer.Close()
}

// BeginTx 开启事务
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (core.ITransaction, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: Conn{q: tx, driver: d.driver, dialect: d.dialect}, tx: tx}, nil
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *DB) Close() error                   { return d.db.Close() }
func (d *DB) Raw() *sql.DB                   { return d.db }

// GetDialectName 返回底层 driver 名
func (d *DB) GetDialectName() string {
	return d.driver
}
