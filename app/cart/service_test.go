package cart

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "ordermgr/data/db"
	"ordermgr/data/db/basic"
	"ordermgr/data/orm/repo"
	"ordermgr/domain/model"
	"ordermgr/errors"
	"ordermgr/logging"
	"ordermgr/store"
)

type fixture struct {
	db     *basic.DB
	svc    *Service
	stores *store.Stores
	candy  *model.Item
	order  *model.Order
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	orig := logging.GetLogger()
	logging.SetLogger(logging.NewNoopLogger())
	t.Cleanup(func() { logging.SetLogger(orig) })

	db, err := basic.New(core.DBConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "cart.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Bootstrap(ctx, db))

	stores, err := store.New(db, repo.WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)

	candy, err := stores.Items.Insert(ctx, &model.Item{Name: "Candy", Price: 4.30, Stock: 10})
	require.NoError(t, err)
	bob, err := stores.Users.Insert(ctx, &model.User{Email: "bob@bobson.com"})
	require.NoError(t, err)
	order, err := stores.Orders.Insert(ctx, &model.Order{UserID: bob.ID})
	require.NoError(t, err)

	return &fixture{
		db:     db,
		svc:    New(db, stores, WithLogger(logging.NewNoopLogger())),
		stores: stores,
		candy:  candy,
		order:  order,
	}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	item, err := f.stores.Items.FindByID(context.Background(), f.candy.ID)
	require.NoError(t, err)
	return item.Stock
}

func TestAddLine(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	line, err := f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 3)
	require.NoError(t, err)
	assert.NotZero(t, line.ID)
	assert.Equal(t, 7, f.stock(t))

	lines, err := f.svc.Lines(ctx, f.order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Candy", lines[0].ItemName)
	assert.Equal(t, 3, lines[0].Amount)
	assert.InDelta(t, 12.90, lines[0].Subtotal, 1e-9)

	total, err := f.svc.Total(ctx, f.order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.90, total, 1e-9)
}

func TestAddLine_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 11)
	assert.True(t, stdErrors.Is(err, ErrInsufficientStock))
	assert.True(t, errors.IsConflict(err))

	assert.Equal(t, 10, f.stock(t))
	lines, err := f.stores.OrderItems.FindByOrderID(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddLine_MissingRows(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.AddLine(ctx, f.order.ID, 404, 1)
	assert.True(t, errors.IsNotFound(err))

	_, err = f.svc.AddLine(ctx, 404, f.candy.ID, 1)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 10, f.stock(t))

	_, err = f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 0)
	assert.True(t, errors.IsValidation(err))
}

func TestRemoveLine(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	line, err := f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t))

	require.NoError(t, f.svc.RemoveLine(ctx, line))
	assert.Equal(t, 10, f.stock(t))

	lines, err := f.svc.Lines(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	total, err := f.svc.Total(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.True(t, errors.IsErrorCode(f.svc.RemoveLine(ctx, nil), errors.ErrCodeInvalidInput))
}

func TestRemoveLine_Twice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	line, err := f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 4)
	require.NoError(t, err)
	require.NoError(t, f.svc.RemoveLine(ctx, line))
	require.Equal(t, 10, f.stock(t))

	err = f.svc.RemoveLine(ctx, line)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 10, f.stock(t))
}

func TestRemoveLine_UsesStoredAmount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	line, err := f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 4)
	require.NoError(t, err)

	stale := *line
	stale.Amount = 9
	require.NoError(t, f.svc.RemoveLine(ctx, &stale))
	assert.Equal(t, 10, f.stock(t))
}

func TestAddLine_InsertFailureRollsBackStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.db.Raw().ExecContext(ctx, `DROP TABLE "order_item"`)
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, f.order.ID, f.candy.ID, 3)
	assert.True(t, errors.IsQuery(err))
	assert.Equal(t, 10, f.stock(t))
}

func TestWithIsolation(t *testing.T) {
	f := setup(t)

	assert.Len(t, f.svc.txOptions(), 1)

	svc := New(f.db, f.stores, WithIsolation(sql.LevelSerializable))
	assert.Equal(t, sql.LevelSerializable, svc.isolation)
	assert.Len(t, svc.txOptions(), 2)
}
