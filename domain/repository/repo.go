// Package repository 定义业务层依赖的仓储契约
package repository

import "context"

// IRepository 通用 CRUD 仓储接口
//
// Insert 与 Update 返回传入的同一个指针；Insert 会把生成的主键写回实体。
// FindByID 无匹配时返回 NOT_FOUND 错误，其余失败返回 CONNECTION_ERROR、QUERY_ERROR 或 MAPPING_ERROR。
type IRepository[T any] interface {
	// FindAll 全部实体，空表返回空切片
	FindAll(ctx context.Context) ([]T, error)

	// FindByID 通过主键获取实体
	FindByID(ctx context.Context, id int64) (T, error)

	// Insert 插入实体
	Insert(ctx context.Context, e *T) (*T, error)

	// Update 按主键更新实体
	Update(ctx context.Context, e *T) (*T, error)

	// Delete 按主键删除实体，行不存在时不报错
	Delete(ctx context.Context, e *T) error
}

// IFinder 单列等值查找
type IFinder[T any] interface {
	FindBy(ctx context.Context, column string, value any) ([]T, error)
}
