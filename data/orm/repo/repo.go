// Package repo 提供按实体类型参数化的通用仓储
//
// 每个操作从 IConnectionProvider 获取一个连接，执行一条语句后在所有退出路径上释放。
// 失败按类型返回 CONNECTION_ERROR、QUERY_ERROR、MAPPING_ERROR，并且只在这里记录一次 WARN 日志；
// 查询失败不会被转换成空结果。
package repo

import (
	"context"

	core "ordermgr/data/db"
	"ordermgr/data/db/dialect"
	dbsql "ordermgr/data/db/sql"
	"ordermgr/data/orm"
	"ordermgr/errors"
	"ordermgr/logging"
)

// Repo 实体 T 的通用仓储，不持有实体状态，可并发使用
type Repo[T any] struct {
	provider core.IConnectionProvider
	desc     *orm.Descriptor[T]
	logger   logging.Logger
}

type options struct {
	logger     logging.Logger
	descriptor any
}

// Option 仓储构造选项
type Option func(*options)

// WithLogger 指定仓储使用的 Logger
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDescriptor 使用给定描述而不是注册表中的描述
func WithDescriptor[T any](d *orm.Descriptor[T]) Option {
	return func(o *options) {
		if d != nil {
			o.descriptor = d
		}
	}
}

// New 创建实体 T 的仓储；未注册描述时返回 SCHEMA_ERROR
func New[T any](provider core.IConnectionProvider, opts ...Option) (*Repo[T], error) {
	if provider == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "connection provider is nil")
	}
	o := &options{logger: logging.GetLogger()}
	for _, opt := range opts {
		opt(o)
	}

	var (
		desc *orm.Descriptor[T]
		err  error
	)
	if o.descriptor != nil {
		d, ok := o.descriptor.(*orm.Descriptor[T])
		if !ok {
			return nil, errors.NewError(errors.ErrCodeSchema, "descriptor does not describe "+orm.TableName[T]())
		}
		desc = d
	} else if desc, err = orm.Describe[T](); err != nil {
		return nil, err
	}

	return &Repo[T]{
		provider: provider,
		desc:     desc,
		logger:   o.logger.WithFields(logging.String("table", desc.Table())),
	}, nil
}

// MustNew 同 New，失败时 panic
func MustNew[T any](provider core.IConnectionProvider, opts ...Option) *Repo[T] {
	r, err := New[T](provider, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// WithProvider 返回绑定到另一个连接提供者（通常是事务）的同类仓储
func (r *Repo[T]) WithProvider(provider core.IConnectionProvider) *Repo[T] {
	cp := *r
	cp.provider = provider
	return &cp
}

// Descriptor 仓储使用的模式描述
func (r *Repo[T]) Descriptor() *orm.Descriptor[T] { return r.desc }

// Table 表名
func (r *Repo[T]) Table() string { return r.desc.Table() }

// withConn 获取连接执行 fn，并保证释放
func (r *Repo[T]) withConn(ctx context.Context, op string, fn func(conn core.IConn, b dbsql.Builder) error) error {
	conn, err := r.provider.Acquire(ctx)
	if err != nil {
		return r.fail(ctx, op, err, errors.ErrCodeConnection, "acquire connection failed")
	}
	defer func() {
		if relErr := r.provider.Release(conn); relErr != nil {
			r.logger.Warn(ctx, "release connection failed", logging.String("op", op), logging.Error(relErr))
		}
	}()
	return fn(conn, dbsql.NewBuilder(dialect.Of(conn)))
}

// fail 记录一次 WARN 并返回带错误代码的错误；已分类的错误保持原代码
func (r *Repo[T]) fail(ctx context.Context, op string, err error, code errors.ErrorCode, msg string) error {
	if _, ok := err.(errors.IError); ok {
		r.logger.Warn(ctx, msg,
			logging.String("op", op),
			logging.String("error_code", string(errors.GetErrorCode(err))),
			logging.Error(err))
		return err
	}
	return errors.WrapWithLog(ctx, r.logger, err, code, msg, logging.String("op", op))
}

// execFail 语句执行失败；唯一键冲突附加 unique_violation 详情
func (r *Repo[T]) execFail(ctx context.Context, op string, b dbsql.Builder, err error) error {
	wrapped := r.fail(ctx, op, err, errors.ErrCodeQuery, op+" statement failed")
	if ie, ok := wrapped.(errors.IError); ok && b.Dialect().IsUniqueViolation(err) {
		return ie.WithContext("unique_violation", true)
	}
	return wrapped
}
