// Package model 定义订单管理的实体及其表映射
//
// 包初始化时向 orm 注册每个实体的 Descriptor。
package model

import (
	"ordermgr/data/orm"
	"ordermgr/validation"
)

// Item 商品
type Item struct {
	ID    int64
	Name  string
	Price float64
	Stock int
}

// Validate 实现 validation.IValidatable
func (i Item) Validate() error {
	if err := validation.ValidateRequired(i.Name, "name"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeFloat(i.Price, "price"); err != nil {
		return err
	}
	return validation.ValidateNonNegative(i.Stock, "stock")
}

// User 用户
type User struct {
	ID    int64
	Email string
}

func (u User) Validate() error {
	return validation.ValidateEmail(u.Email)
}

// Order 订单
type Order struct {
	ID     int64
	UserID int64
}

func (o Order) Validate() error {
	return validation.ValidateID(o.UserID, "user_id")
}

// OrderItem 订单行
type OrderItem struct {
	ID      int64
	OrderID int64
	ItemID  int64
	Amount  int
}

func (oi OrderItem) Validate() error {
	if err := validation.ValidateID(oi.OrderID, "order_id"); err != nil {
		return err
	}
	if err := validation.ValidateID(oi.ItemID, "item_id"); err != nil {
		return err
	}
	return validation.ValidatePositive(oi.Amount, "amount")
}

// 表映射
var (
	ItemDescriptor = orm.NewDescriptor[Item]("item").
		Identity("id", func(e *Item) *int64 { return &e.ID }).
		Column(orm.Field("name", orm.TypeText, func(e *Item) *string { return &e.Name })).
		Column(orm.Field("price", orm.TypeReal, func(e *Item) *float64 { return &e.Price })).
		Column(orm.Field("stock", orm.TypeInteger, func(e *Item) *int { return &e.Stock })).
		MustBuild()

	UserDescriptor = orm.NewDescriptor[User]("user").
		Identity("id", func(e *User) *int64 { return &e.ID }).
		Column(orm.Field("email", orm.TypeText, func(e *User) *string { return &e.Email })).
		MustBuild()

	OrderDescriptor = orm.NewDescriptor[Order]("order").
		Identity("id", func(e *Order) *int64 { return &e.ID }).
		Column(orm.Field("user_id", orm.TypeInteger, func(e *Order) *int64 { return &e.UserID })).
		MustBuild()

	OrderItemDescriptor = orm.NewDescriptor[OrderItem]("order_item").
		Identity("id", func(e *OrderItem) *int64 { return &e.ID }).
		Column(orm.Field("order_id", orm.TypeInteger, func(e *OrderItem) *int64 { return &e.OrderID })).
		Column(orm.Field("item_id", orm.TypeInteger, func(e *OrderItem) *int64 { return &e.ItemID })).
		Column(orm.Field("amount", orm.TypeInteger, func(e *OrderItem) *int { return &e.Amount })).
		MustBuild()
)

func init() {
	orm.MustRegister(ItemDescriptor)
	orm.MustRegister(UserDescriptor)
	orm.MustRegister(OrderDescriptor)
	orm.MustRegister(OrderItemDescriptor)
}
