// Package cart 订单行的增删：库存变更与订单行写入在同一事务中完成
package cart

import (
	"context"
	"database/sql"

	core "ordermgr/data/db"
	"ordermgr/domain/model"
	"ordermgr/errors"
	"ordermgr/logging"
	"ordermgr/store"
	"ordermgr/validation"
)

// ErrInsufficientStock 库存不足
var ErrInsufficientStock = errors.NewError(errors.ErrCodeConflict, "insufficient stock")

// Line 带商品信息的订单行
type Line struct {
	model.OrderItem
	ItemName string
	Price    float64
	Subtotal float64
}

// Service 购物车服务
//
// AddLine 对库存做读取-修改-写入。并发扣减同一商品时，需要数据库在所选隔离级别下
// 拒绝丢失更新：SQLite 的写事务天然串行；Postgres 默认的 READ COMMITTED 不满足，
// 应通过 WithIsolation(sql.LevelSerializable) 运行，并由调用方重试序列化失败。
type Service struct {
	beginner  core.ITxBeginner
	stores    *store.Stores
	logger    logging.Logger
	isolation sql.IsolationLevel
}

// Option 服务选项
type Option func(*Service)

// WithLogger 指定服务使用的 Logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIsolation 指定事务隔离级别，默认使用驱动默认级别
func WithIsolation(level sql.IsolationLevel) Option {
	return func(s *Service) {
		s.isolation = level
	}
}

// New 创建购物车服务；stores 应绑定在 beginner 所属的数据库上
func New(beginner core.ITxBeginner, stores *store.Stores, opts ...Option) *Service {
	s := &Service{
		beginner: beginner,
		stores:   stores,
		logger:   logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithFields(logging.String("component", "cart"))
	return s
}

func (s *Service) txOptions() []core.TxOption {
	opts := []core.TxOption{core.WithTxLogger(s.logger)}
	if s.isolation != sql.LevelDefault {
		opts = append(opts, core.WithTxOptions(&sql.TxOptions{Isolation: s.isolation}))
	}
	return opts
}

// AddLine 向订单添加商品：扣减库存并写入订单行
//
// 订单或商品不存在返回 NOT_FOUND，库存不足返回 ErrInsufficientStock；任一步失败整体回滚。
func (s *Service) AddLine(ctx context.Context, orderID, itemID int64, amount int) (*model.OrderItem, error) {
	if err := validation.ValidatePositive(amount, "amount"); err != nil {
		return nil, err
	}

	var line *model.OrderItem
	err := core.RunInTx(ctx, s.beginner, func(ctx context.Context, p core.IConnectionProvider) error {
		tx := s.stores.WithProvider(p)

		if _, err := tx.Orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		item, err := tx.Items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.Stock < amount {
			return ErrInsufficientStock.
				WithContext("item_id", itemID).
				WithContext("requested", amount).
				WithContext("available", item.Stock)
		}

		item.Stock -= amount
		if _, err := tx.Items.Update(ctx, &item); err != nil {
			return err
		}

		line, err = tx.OrderItems.Insert(ctx, &model.OrderItem{OrderID: orderID, ItemID: itemID, Amount: amount})
		return err
	}, s.txOptions()...)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "line added",
		logging.Int64("order_id", orderID),
		logging.Int64("item_id", itemID),
		logging.Int("amount", amount))
	return line, nil
}

// RemoveLine 删除订单行并归还库存
//
// 以库中保存的订单行为准归还库存；订单行已不存在时返回 NOT_FOUND，库存不变。
func (s *Service) RemoveLine(ctx context.Context, line *model.OrderItem) error {
	if line == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "order line is nil")
	}

	var stored model.OrderItem
	err := core.RunInTx(ctx, s.beginner, func(ctx context.Context, p core.IConnectionProvider) error {
		tx := s.stores.WithProvider(p)

		var err error
		if stored, err = tx.OrderItems.FindByID(ctx, line.ID); err != nil {
			return err
		}
		item, err := tx.Items.FindByID(ctx, stored.ItemID)
		if err != nil {
			return err
		}
		item.Stock += stored.Amount
		if _, err := tx.Items.Update(ctx, &item); err != nil {
			return err
		}
		return tx.OrderItems.Delete(ctx, &stored)
	}, s.txOptions()...)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "line removed",
		logging.Int64("order_id", stored.OrderID),
		logging.Int64("item_id", stored.ItemID),
		logging.Int("amount", stored.Amount))
	return nil
}

// Lines 订单的全部订单行及小计（单价 × 数量）
func (s *Service) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	items, err := s.stores.OrderItems.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	cache := make(map[int64]model.Item)
	out := make([]Line, 0, len(items))
	for _, oi := range items {
		item, ok := cache[oi.ItemID]
		if !ok {
			if item, err = s.stores.Items.FindByID(ctx, oi.ItemID); err != nil {
				return nil, err
			}
			cache[oi.ItemID] = item
		}
		out = append(out, Line{
			OrderItem: oi,
			ItemName:  item.Name,
			Price:     item.Price,
			Subtotal:  item.Price * float64(oi.Amount),
		})
	}
	return out, nil
}

// Total 订单总额
func (s *Service) Total(ctx context.Context, orderID int64) (float64, error) {
	lines, err := s.Lines(ctx, orderID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, l := range lines {
		total += l.Subtotal
	}
	return total, nil
}
