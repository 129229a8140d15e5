package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ordermgr/errors"
	"ordermgr/logging"
)

// TxFunc 在事务内执行的函数，provider 上的所有操作都在同一事务中
type TxFunc func(ctx context.Context, provider IConnectionProvider) error

// TxOption 事务作用域选项
type TxOption func(*txScope)

type txScope struct {
	logger  logging.Logger
	options *sql.TxOptions
}

// WithTxLogger 指定事务作用域使用的 Logger
func WithTxLogger(logger logging.Logger) TxOption {
	return func(s *txScope) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTxOptions 指定隔离级别等事务选项，nil 表示驱动默认
func WithTxOptions(options *sql.TxOptions) TxOption {
	return func(s *txScope) {
		s.options = options
	}
}

// RunInTx 在一个事务中执行 fn
//
// fn 返回 nil 时提交，返回错误或 panic 时回滚；panic 在回滚后继续向上抛出。
// 开启事务失败返回 CONNECTION_ERROR，提交失败返回 QUERY_ERROR，fn 的错误原样返回。
func RunInTx(ctx context.Context, beginner ITxBeginner, fn TxFunc, opts ...TxOption) (err error) {
	scope := &txScope{logger: logging.GetLogger()}
	for _, opt := range opts {
		opt(scope)
	}
	logger := scope.logger.WithFields(logging.String("tx", uuid.NewString()))

	tx, err := beginner.BeginTx(ctx, scope.options)
	if err != nil {
		return errors.WrapWithLog(ctx, logger, err, errors.ErrCodeConnection, "begin transaction failed")
	}
	started := time.Now()
	logger.Debug(ctx, "transaction started")

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error(ctx, "rollback after panic failed", logging.Error(rbErr))
			}
			logger.Error(ctx, "transaction rolled back on panic", logging.String("panic", fmt.Sprint(r)))
			panic(r)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error(ctx, "rollback failed", logging.Error(rbErr))
		}
		logger.Info(ctx, "transaction rolled back", logging.Error(err))
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapWithLog(ctx, logger, err, errors.ErrCodeQuery, "commit transaction failed")
	}
	logger.Debug(ctx, "transaction committed", logging.Duration("elapsed", time.Since(started)))
	return nil
}
