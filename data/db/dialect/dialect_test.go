package dialect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind_Postgres(t *testing.T) {
	d := New("postgres")
	q := `UPDATE "item" SET "name" = ?, "price" = ? WHERE "id" = ?`
	assert.Equal(t, `UPDATE "item" SET "name" = $1, "price" = $2 WHERE "id" = $3`, d.Rebind(q))
}

func TestRebind_NoChangeForMySQLSQLite(t *testing.T) {
	orig := "DELETE FROM t WHERE id = ? AND name = ?"
	for _, name := range []string{"mysql", "sqlite", "unknown"} {
		assert.Equal(t, orig, New(name).Rebind(orig), name)
	}
}

func TestNew_Aliases(t *testing.T) {
	assert.Equal(t, NamePostgres, New("pgx").Name())
	assert.Equal(t, NamePostgres, New("PostgreSQL").Name())
	assert.Equal(t, NameSQLite, New("sqlite3").Name())
	assert.Equal(t, NameUnknown, New("oracle").Name())
}

type named string

func (n named) GetDialectName() string { return string(n) }

func TestOf(t *testing.T) {
	assert.Equal(t, NameSQLite, Of(named("sqlite")).Name())
	assert.Equal(t, NameUnknown, Of(struct{}{}).Name())
	assert.Equal(t, NameUnknown, Of(nil).Name())
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"order"`, New("sqlite").QuoteIdentifier("order"))
	assert.Equal(t, `"main"."user"`, New("postgres").QuoteIdentifier("main.user"))
	assert.Equal(t, "`order`", New("mysql").QuoteIdentifier("order"))
	assert.Equal(t, "order", New("").QuoteIdentifier("order"))
	assert.Equal(t, "", New("sqlite").QuoteIdentifier(""))
}

func TestColumnTypes(t *testing.T) {
	sqlite := New("sqlite")
	assert.Equal(t, "REAL", sqlite.ColumnType(KindReal))
	assert.Equal(t, "INTEGER PRIMARY KEY AUTOINCREMENT", sqlite.IdentityColumn(false))
	assert.Equal(t, "INTEGER PRIMARY KEY", sqlite.IdentityColumn(true))

	pg := New("pgx")
	assert.True(t, pg.SupportsReturning())
	assert.False(t, sqlite.SupportsReturning())
	assert.Equal(t, "DOUBLE PRECISION", pg.ColumnType(KindReal))
	assert.Equal(t, "BIGSERIAL PRIMARY KEY", pg.IdentityColumn(false))
	assert.Equal(t, "TEXT", pg.ColumnType(KindText))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, New("sqlite").IsUniqueViolation(errors.New("UNIQUE constraint failed: user.email")))
	assert.True(t, New("pgx").IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "user_email_key" (SQLSTATE 23505)`)))
	assert.False(t, New("sqlite").IsUniqueViolation(errors.New("no such table: item")))
	assert.False(t, New("sqlite").IsUniqueViolation(nil))
}
