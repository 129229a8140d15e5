package store

import (
	"context"

	core "ordermgr/data/db"
	"ordermgr/data/db/dialect"
	dbsql "ordermgr/data/db/sql"
	"ordermgr/data/orm"
	"ordermgr/domain/model"
	"ordermgr/errors"
	"ordermgr/logging"
)

// Bootstrap 按实体描述创建四张表（已存在则跳过）
//
// 只用于初始化演示库与测试库，不做版本管理。
func Bootstrap(ctx context.Context, provider core.IConnectionProvider) error {
	logger := logging.GetLogger()

	conn, err := provider.Acquire(ctx)
	if err != nil {
		return errors.WrapWithLog(ctx, logger, err, errors.ErrCodeConnection, "acquire connection failed")
	}
	defer provider.Release(conn)

	b := dbsql.NewBuilder(dialect.Of(conn))
	stmts := []string{
		createTable(b, model.ItemDescriptor),
		createTable(b, model.UserDescriptor),
		createTable(b, model.OrderDescriptor),
		createTable(b, model.OrderItemDescriptor),
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return errors.WrapWithLog(ctx, logger, err, errors.ErrCodeQuery, "create table failed",
				logging.String("sql", stmt))
		}
	}
	logger.Info(ctx, "schema ready", logging.Int("tables", len(stmts)))
	return nil
}

func createTable[T any](b dbsql.Builder, d *orm.Descriptor[T]) string {
	return b.CreateTable(d.Table(), d.IDColumn(), d.Assigned(), d.ColumnDefs())
}
