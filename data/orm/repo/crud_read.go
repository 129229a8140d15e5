package repo

import (
	"context"
	"fmt"

	core "ordermgr/data/db"
	dbsql "ordermgr/data/db/sql"
	"ordermgr/data/orm"
	"ordermgr/errors"
	"ordermgr/logging"
)

// FindAll 返回表中全部行，顺序为数据库返回顺序；空表返回非 nil 空切片
func (r *Repo[T]) FindAll(ctx context.Context) ([]T, error) {
	var out []T
	err := r.withConn(ctx, "find_all", func(conn core.IConn, b dbsql.Builder) error {
		rows, err := conn.Query(ctx, b.SelectAll(r.desc.Table()))
		if err != nil {
			return r.fail(ctx, "find_all", err, errors.ErrCodeQuery, "find_all statement failed")
		}
		defer rows.Close()

		if out, err = orm.ScanAll(rows, r.desc); err != nil {
			return r.fail(ctx, "find_all", err, errors.ErrCodeMapping, "find_all mapping failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID 按主键查找；无匹配行返回 NOT_FOUND，多行时取第一行
func (r *Repo[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var (
		zero  T
		found *T
	)
	err := r.withConn(ctx, "find_by_id", func(conn core.IConn, b dbsql.Builder) error {
		rows, err := conn.Query(ctx, b.SelectBy(r.desc.Table(), r.desc.IDColumn()), id)
		if err != nil {
			return r.fail(ctx, "find_by_id", err, errors.ErrCodeQuery, "find_by_id statement failed")
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return r.fail(ctx, "find_by_id", err, errors.ErrCodeQuery, "find_by_id iteration failed")
			}
			r.logger.Debug(ctx, "row not found", logging.String("op", "find_by_id"), logging.Int64("id", id))
			return errors.NewError(errors.ErrCodeNotFound,
				fmt.Sprintf("%s with %s %d not found", r.desc.Table(), r.desc.IDColumn(), id)).
				WithContext("id", id)
		}
		if found, err = orm.RowToEntity(rows, r.desc); err != nil {
			return r.fail(ctx, "find_by_id", err, errors.ErrCodeMapping, "find_by_id mapping failed")
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	return *found, nil
}

// FindBy 按单个声明列等值查找，供具体仓储实现自定义查找器
//
// column 必须是描述中声明的列，否则返回 INVALID_INPUT。
func (r *Repo[T]) FindBy(ctx context.Context, column string, value any) ([]T, error) {
	col, ok := r.desc.Lookup(column)
	if !ok {
		return nil, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("%s has no column %q", r.desc.Table(), column))
	}

	op := "find_by_" + col.Name
	var out []T
	err := r.withConn(ctx, op, func(conn core.IConn, b dbsql.Builder) error {
		rows, err := conn.Query(ctx, b.SelectBy(r.desc.Table(), col.Name), value)
		if err != nil {
			return r.fail(ctx, op, err, errors.ErrCodeQuery, op+" statement failed")
		}
		defer rows.Close()

		if out, err = orm.ScanAll(rows, r.desc); err != nil {
			return r.fail(ctx, op, err, errors.ErrCodeMapping, op+" mapping failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
