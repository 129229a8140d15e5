package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "ordermgr/data/db"
	"ordermgr/data/db/basic"
	"ordermgr/data/orm/repo"
	"ordermgr/domain/model"
	"ordermgr/domain/repository"
	"ordermgr/errors"
	"ordermgr/logging"
)

var (
	_ repository.IRepository[model.Item]      = (*ItemRepo)(nil)
	_ repository.IRepository[model.User]      = (*UserRepo)(nil)
	_ repository.IRepository[model.Order]     = (*OrderRepo)(nil)
	_ repository.IRepository[model.OrderItem] = (*OrderItemRepo)(nil)
)

func newStores(t *testing.T) (*Stores, *basic.DB) {
	t.Helper()
	db, err := basic.New(core.DBConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	orig := logging.GetLogger()
	logging.SetLogger(logging.NewNoopLogger())
	t.Cleanup(func() { logging.SetLogger(orig) })

	require.NoError(t, Bootstrap(context.Background(), db))
	// 重复初始化不报错
	require.NoError(t, Bootstrap(context.Background(), db))

	s, err := New(db, repo.WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)
	return s, db
}

func TestStores_CandyScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newStores(t)

	candy, err := s.Items.Insert(ctx, &model.Item{Name: "Candy", Price: 4.30, Stock: 10})
	require.NoError(t, err)
	assert.NotZero(t, candy.ID)

	bob, err := s.Users.Insert(ctx, &model.User{Email: "bob@bobson.com"})
	require.NoError(t, err)

	order, err := s.Orders.Insert(ctx, &model.Order{UserID: bob.ID})
	require.NoError(t, err)

	line, err := s.OrderItems.Insert(ctx, &model.OrderItem{OrderID: order.ID, ItemID: candy.ID, Amount: 3})
	require.NoError(t, err)

	lines, err := s.OrderItems.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.OrderItem{{ID: line.ID, OrderID: order.ID, ItemID: candy.ID, Amount: 3}}, lines)

	found, err := s.Items.FindByID(ctx, candy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: candy.ID, Name: "Candy", Price: 4.30, Stock: 10}, found)
}

func TestStores_Finders(t *testing.T) {
	ctx := context.Background()
	s, _ := newStores(t)

	for _, name := range []string{"Candy", "Soda", "Candy"} {
		_, err := s.Items.Insert(ctx, &model.Item{Name: name, Price: 1, Stock: 1})
		require.NoError(t, err)
	}
	candies, err := s.Items.FindByName(ctx, "Candy")
	require.NoError(t, err)
	assert.Len(t, candies, 2)

	alice, err := s.Users.Insert(ctx, &model.User{Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = s.Users.Insert(ctx, &model.User{Email: "carol@example.com"})
	require.NoError(t, err)

	users, err := s.Users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	nobody, err := s.Users.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, nobody)
	assert.Empty(t, nobody)

	for i := 0; i < 2; i++ {
		_, err := s.Orders.Insert(ctx, &model.Order{UserID: alice.ID})
		require.NoError(t, err)
	}
	orders, err := s.Orders.FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, alice.ID, o.UserID)
	}
}

func TestStores_FindByOrderIDExcludesOtherOrders(t *testing.T) {
	ctx := context.Background()
	s, _ := newStores(t)

	u, err := s.Users.Insert(ctx, &model.User{Email: "bob@bobson.com"})
	require.NoError(t, err)
	item, err := s.Items.Insert(ctx, &model.Item{Name: "Candy", Price: 4.30, Stock: 10})
	require.NoError(t, err)
	first, err := s.Orders.Insert(ctx, &model.Order{UserID: u.ID})
	require.NoError(t, err)
	second, err := s.Orders.Insert(ctx, &model.Order{UserID: u.ID})
	require.NoError(t, err)

	firstLine, err := s.OrderItems.Insert(ctx, &model.OrderItem{OrderID: first.ID, ItemID: item.ID, Amount: 1})
	require.NoError(t, err)
	secondLine, err := s.OrderItems.Insert(ctx, &model.OrderItem{OrderID: second.ID, ItemID: item.ID, Amount: 2})
	require.NoError(t, err)

	lines, err := s.OrderItems.FindByOrderID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, firstLine.ID, lines[0].ID)

	lines, err = s.OrderItems.FindByOrderID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, secondLine.ID, lines[0].ID)
	assert.Equal(t, 2, lines[0].Amount)
}

func TestStores_ReservedTableNames(t *testing.T) {
	ctx := context.Background()
	s, _ := newStores(t)

	u, err := s.Users.Insert(ctx, &model.User{Email: "bob@bobson.com"})
	require.NoError(t, err)
	o, err := s.Orders.Insert(ctx, &model.Order{UserID: u.ID})
	require.NoError(t, err)

	o.UserID = 99
	_, err = s.Orders.Update(ctx, o)
	require.NoError(t, err)
	got, err := s.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.UserID)

	require.NoError(t, s.Users.Delete(ctx, u))
	_, err = s.Users.FindByID(ctx, u.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestStores_WithProvider(t *testing.T) {
	ctx := context.Background()
	s, db := newStores(t)

	err := core.RunInTx(ctx, db, func(ctx context.Context, p core.IConnectionProvider) error {
		tx := s.WithProvider(p)
		if _, err := tx.Items.Insert(ctx, &model.Item{Name: "Gum", Price: 0.5, Stock: 5}); err != nil {
			return err
		}
		_, err := tx.Users.Insert(ctx, &model.User{Email: "tx@example.com"})
		return err
	}, core.WithTxLogger(logging.NewNoopLogger()))
	require.NoError(t, err)

	items, err := s.Items.FindByName(ctx, "Gum")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	users, err := s.Users.FindByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
