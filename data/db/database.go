// Package db 定义数据访问层所依赖的连接抽象
//
// 仓储只面向 IConnectionProvider 获取短生命周期连接，
// 连接池与事务边界由具体实现（见 basic 子包）和 RunInTx 负责。
package db

import (
	"context"
	"database/sql"
)

// IConnectionProvider 连接提供者
//
// 每次仓储操作 Acquire 一个连接，并在所有退出路径上 Release。
type IConnectionProvider interface {
	Acquire(ctx context.Context) (IConn, error)
	Release(conn IConn) error
}

// IConn 单个可执行参数化语句的连接
type IConn interface {
	IDialectNameProvider

	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// IDialectNameProvider 提供底层数据库方言名称
//
// 实现方应返回诸如 "mysql"、"sqlite"、"postgres"、"pgx" 等 driver 名，
// 供上层推断占位符、标识符引号与主键回读方式。
type IDialectNameProvider interface {
	GetDialectName() string
}

// ITxBeginner 可开启事务的提供者
type ITxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (ITransaction, error)
}

// ITransaction 事务
//
// 事务本身也是 IConnectionProvider：Acquire 总是返回同一个事务连接，Release 为空操作，
// 因此仓储可以不加修改地绑定到事务上执行。
type ITransaction interface {
	IConnectionProvider

	Commit() error
	Rollback() error
}

// IRows 查询结果集接口
type IRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error

	Columns() ([]string, error)
}

// IRow 单行结果接口
type IRow interface {
	Scan(dest ...any) error
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver string // sqlite, pgx, postgres, mysql
	DSN    string

	// 连接池配置
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}
