package db

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordermgr/errors"
	"ordermgr/logging"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Acquire(ctx context.Context) (IConn, error) { return nil, nil }
func (t *fakeTx) Release(conn IConn) error                   { return nil }
func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}
func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	opts     *sql.TxOptions
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (ITransaction, error) {
	b.opts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func quiet() TxOption { return WithTxLogger(logging.NewNoopLogger()) }

func TestRunInTx_Commit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	var got IConnectionProvider
	err := RunInTx(context.Background(), b, func(ctx context.Context, p IConnectionProvider) error {
		got = p
		return nil
	}, quiet())

	require.NoError(t, err)
	assert.Same(t, b.tx, got)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.NewError(errors.ErrCodeConflict, "boom")

	err := RunInTx(context.Background(), b, func(ctx context.Context, p IConnectionProvider) error {
		return boom
	}, quiet())

	assert.Same(t, boom, err)
	assert.False(t, b.tx.committed)
	assert.True(t, b.tx.rolledBack)
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = RunInTx(context.Background(), b, func(ctx context.Context, p IConnectionProvider) error {
			panic("kaboom")
		}, quiet())
	})
	assert.True(t, b.tx.rolledBack)
	assert.False(t, b.tx.committed)
}

func TestRunInTx_BeginFailure(t *testing.T) {
	b := &fakeBeginner{beginErr: stdErrors.New("pool exhausted")}
	called := false

	err := RunInTx(context.Background(), b, func(ctx context.Context, p IConnectionProvider) error {
		called = true
		return nil
	}, quiet())

	assert.False(t, called)
	assert.True(t, errors.IsConnection(err))
}

func TestRunInTx_CommitFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErr: stdErrors.New("disk I/O error")}}

	err := RunInTx(context.Background(), b, func(ctx context.Context, p IConnectionProvider) error {
		return nil
	}, quiet())

	assert.True(t, errors.IsQuery(err))
	assert.True(t, b.tx.committed)
}

func TestRunInTx_TxOptions(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	noop := func(ctx context.Context, p IConnectionProvider) error { return nil }

	require.NoError(t, RunInTx(context.Background(), b, noop, quiet()))
	assert.Nil(t, b.opts)

	serializable := &sql.TxOptions{Isolation: sql.LevelSerializable}
	require.NoError(t, RunInTx(context.Background(), b, noop, quiet(), WithTxOptions(serializable)))
	assert.Same(t, serializable, b.opts)
}
