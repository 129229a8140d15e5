package repo

import (
	"context"

	core "ordermgr/data/db"
	dbsql "ordermgr/data/db/sql"
	"ordermgr/data/orm"
	"ordermgr/errors"
	"ordermgr/validation"
)

func validate[T any](e *T) error {
	if v, ok := any(e).(validation.IValidatable); ok {
		return v.Validate()
	}
	return nil
}

func (r *Repo[T]) nilEntity(ctx context.Context, op string) error {
	return r.fail(ctx, op, errors.NewError(errors.ErrCodeMapping, r.desc.Table()+": entity is nil"),
		errors.ErrCodeMapping, op+" rejected nil entity")
}

// Insert 插入实体并把数据库生成的主键写回 e，返回同一个指针
//
// 主键由数据库生成时 INSERT 不含主键列，主键通过 LastInsertId 或 RETURNING 回读；
// 描述声明为 Assigned 时使用 e 上已有的主键，不回读。
func (r *Repo[T]) Insert(ctx context.Context, e *T) (*T, error) {
	if e == nil {
		return nil, r.nilEntity(ctx, "insert")
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	cols := r.desc.InsertColumns()
	names := orm.Names(cols)
	args := orm.EntityToParams(e, cols)
	table := r.desc.Table()

	err := r.withConn(ctx, "insert", func(conn core.IConn, b dbsql.Builder) error {
		if r.desc.Assigned() {
			if _, err := conn.Exec(ctx, b.Insert(table, names), args...); err != nil {
				return r.execFail(ctx, "insert", b, err)
			}
			return nil
		}

		var id int64
		if b.Dialect().SupportsReturning() {
			err := conn.QueryRow(ctx, b.InsertReturning(table, names, r.desc.IDColumn()), args...).Scan(&id)
			if err != nil {
				return r.execFail(ctx, "insert", b, err)
			}
		} else {
			res, err := conn.Exec(ctx, b.Insert(table, names), args...)
			if err != nil {
				return r.execFail(ctx, "insert", b, err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return r.fail(ctx, "insert", err, errors.ErrCodeQuery, "read generated key failed")
			}
		}
		return orm.WriteID(e, r.desc, id)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Update 以 e 的主键为条件更新全部非主键列，返回同一个指针
//
// 不检查受影响行数：主键不存在时不报错。
func (r *Repo[T]) Update(ctx context.Context, e *T) (*T, error) {
	if e == nil {
		return nil, r.nilEntity(ctx, "update")
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	id, err := orm.ReadID(e, r.desc)
	if err != nil {
		return nil, r.fail(ctx, "update", err, errors.ErrCodeMapping, "read identity failed")
	}
	cols := r.desc.UpdateColumns()
	args := append(orm.EntityToParams(e, cols), id)

	err = r.withConn(ctx, "update", func(conn core.IConn, b dbsql.Builder) error {
		q := b.Update(r.desc.Table(), orm.Names(cols), r.desc.IDColumn())
		if _, err := conn.Exec(ctx, q, args...); err != nil {
			return r.execFail(ctx, "update", b, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Delete 以 e 的主键为条件删除；行不存在时不报错
func (r *Repo[T]) Delete(ctx context.Context, e *T) error {
	if e == nil {
		return r.nilEntity(ctx, "delete")
	}
	id, err := orm.ReadID(e, r.desc)
	if err != nil {
		return r.fail(ctx, "delete", err, errors.ErrCodeMapping, "read identity failed")
	}

	return r.withConn(ctx, "delete", func(conn core.IConn, b dbsql.Builder) error {
		if _, err := conn.Exec(ctx, b.DeleteBy(r.desc.Table(), r.desc.IDColumn()), id); err != nil {
			return r.execFail(ctx, "delete", b, err)
		}
		return nil
	})
}
