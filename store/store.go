// Package store 提供四个实体的具体仓储
//
// 每个具体仓储嵌入通用仓储，只额外提供一个固定列的查找器。
package store

import (
	"context"

	core "ordermgr/data/db"
	"ordermgr/data/orm/repo"
	"ordermgr/domain/model"
)

// ItemRepo 商品仓储
type ItemRepo struct {
	*repo.Repo[model.Item]
}

// NewItemRepo 创建商品仓储
func NewItemRepo(provider core.IConnectionProvider, opts ...repo.Option) (*ItemRepo, error) {
	r, err := repo.New[model.Item](provider, opts...)
	if err != nil {
		return nil, err
	}
	return &ItemRepo{Repo: r}, nil
}

// FindByName 按名称查找商品
func (r *ItemRepo) FindByName(ctx context.Context, name string) ([]model.Item, error) {
	return r.FindBy(ctx, "name", name)
}

// WithProvider 绑定到另一个连接提供者
func (r *ItemRepo) WithProvider(provider core.IConnectionProvider) *ItemRepo {
	return &ItemRepo{Repo: r.Repo.WithProvider(provider)}
}

// UserRepo 用户仓储
type UserRepo struct {
	*repo.Repo[model.User]
}

func NewUserRepo(provider core.IConnectionProvider, opts ...repo.Option) (*UserRepo, error) {
	r, err := repo.New[model.User](provider, opts...)
	if err != nil {
		return nil, err
	}
	return &UserRepo{Repo: r}, nil
}

// FindByEmail 按邮箱查找用户
func (r *UserRepo) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	return r.FindBy(ctx, "email", email)
}

func (r *UserRepo) WithProvider(provider core.IConnectionProvider) *UserRepo {
	return &UserRepo{Repo: r.Repo.WithProvider(provider)}
}

// OrderRepo 订单仓储
type OrderRepo struct {
	*repo.Repo[model.Order]
}

func NewOrderRepo(provider core.IConnectionProvider, opts ...repo.Option) (*OrderRepo, error) {
	r, err := repo.New[model.Order](provider, opts...)
	if err != nil {
		return nil, err
	}
	return &OrderRepo{Repo: r}, nil
}

// FindByUserID 查找用户的全部订单
func (r *OrderRepo) FindByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.FindBy(ctx, "user_id", userID)
}

func (r *OrderRepo) WithProvider(provider core.IConnectionProvider) *OrderRepo {
	return &OrderRepo{Repo: r.Repo.WithProvider(provider)}
}

// OrderItemRepo 订单行仓储
type OrderItemRepo struct {
	*repo.Repo[model.OrderItem]
}

func NewOrderItemRepo(provider core.IConnectionProvider, opts ...repo.Option) (*OrderItemRepo, error) {
	r, err := repo.New[model.OrderItem](provider, opts...)
	if err != nil {
		return nil, err
	}
	return &OrderItemRepo{Repo: r}, nil
}

// FindByOrderID 查找订单的全部订单行
func (r *OrderItemRepo) FindByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return r.FindBy(ctx, "order_id", orderID)
}

func (r *OrderItemRepo) WithProvider(provider core.IConnectionProvider) *OrderItemRepo {
	return &OrderItemRepo{Repo: r.Repo.WithProvider(provider)}
}

// Stores 四个具体仓储的集合
type Stores struct {
	Items      *ItemRepo
	Users      *UserRepo
	Orders     *OrderRepo
	OrderItems *OrderItemRepo
}

// New 在同一个连接提供者上创建全部仓储
func New(provider core.IConnectionProvider, opts ...repo.Option) (*Stores, error) {
	items, err := NewItemRepo(provider, opts...)
	if err != nil {
		return nil, err
	}
	users, err := NewUserRepo(provider, opts...)
	if err != nil {
		return nil, err
	}
	orders, err := NewOrderRepo(provider, opts...)
	if err != nil {
		return nil, err
	}
	lines, err := NewOrderItemRepo(provider, opts...)
	if err != nil {
		return nil, err
	}
	return &Stores{Items: items, Users: users, Orders: orders, OrderItems: lines}, nil
}

// WithProvider 把全部仓储绑定到同一个提供者，通常是一个事务
func (s *Stores) WithProvider(provider core.IConnectionProvider) *Stores {
	return &Stores{
		Items:      s.Items.WithProvider(provider),
		Users:      s.Users.WithProvider(provider),
		Orders:     s.Orders.WithProvider(provider),
		OrderItems: s.OrderItems.WithProvider(provider),
	}
}
