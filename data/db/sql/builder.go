// Package sql 由表名与列名合成参数化 SQL 文本
//
// Builder 是纯函数：不访问数据库、不持有状态，同样的输入总得到同样的语句。
// 标识符只能来自模式描述，仍按方言加引号并做安全校验；值一律使用 ? 占位符，
// Postgres 的 $n 改写由连接层在执行时完成。
package sql

import (
	"strings"

	"ordermgr/data/db/dialect"
)

// Builder 语句构建器
type Builder struct {
	dialect dialect.Dialect
}

// NewBuilder 创建指定方言的构建器
func NewBuilder(d dialect.Dialect) Builder {
	return Builder{dialect: d}
}

// Dialect 返回构建器使用的方言
func (b Builder) Dialect() dialect.Dialect {
	return b.dialect
}

// quote 校验并引用标识符，不安全的标识符视为编程错误直接 panic
func (b Builder) quote(kind, name string) string {
	if !isSafeIdentifier(name) {
		panic("sql builder: unsafe " + kind + " name " + name)
	}
	return b.dialect.QuoteIdentifier(name)
}

func (b Builder) quoteAll(cols []string) []string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = b.quote("column", col)
	}
	return quoted
}

// SelectAll SELECT * FROM <table>
func (b Builder) SelectAll(table string) string {
	return "SELECT * FROM " + b.quote("table", table)
}

// SelectBy SELECT * FROM <table> WHERE <field> = ?
func (b Builder) SelectBy(table, field string) string {
	return b.SelectAll(table) + " WHERE " + b.quote("column", field) + " = ?"
}

// Insert INSERT INTO <table> (<c1>, <c2>) VALUES (?, ?)
func (b Builder) Insert(table string, cols []string) string {
	if len(cols) == 0 {
		panic("sql builder: insert requires at least one column")
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.quote("table", table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(b.quoteAll(cols), ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(placeholders(len(cols)))
	sb.WriteString(")")
	return sb.String()
}

// InsertReturning 在 Insert 之后追加 RETURNING <idCol>
func (b Builder) InsertReturning(table string, cols []string, idCol string) string {
	return b.Insert(table, cols) + " RETURNING " + b.quote("column", idCol)
}

// Update UPDATE <table> SET <c1> = ?, <c2> = ? WHERE <whereField> = ?
//
// 绑定参数顺序为 cols 的顺序，最后是 whereField 的值。
func (b Builder) Update(table string, cols []string, whereField string) string {
	if len(cols) == 0 {
		panic("sql builder: update requires at least one column")
	}
	sets := b.quoteAll(cols)
	for i := range sets {
		sets[i] += " = ?"
	}
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.quote("table", table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(b.quote("column", whereField))
	sb.WriteString(" = ?")
	return sb.String()
}

// DeleteBy DELETE FROM <table> WHERE <whereField> = ?
func (b Builder) DeleteBy(table, whereField string) string {
	return "DELETE FROM " + b.quote("table", table) + " WHERE " + b.quote("column", whereField) + " = ?"
}

// ColumnDef 建表用的列定义，Kind 取 dialect.KindInteger/KindReal/KindText
type ColumnDef struct {
	Name string
	Kind string
}

// CreateTable CREATE TABLE IF NOT EXISTS，仅用于初始化演示与测试库
//
// idCol 放在第一列；assigned 为 true 时主键不自增。
func (b Builder) CreateTable(table string, idCol string, assigned bool, cols []ColumnDef) string {
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, b.quote("column", idCol)+" "+b.dialect.IdentityColumn(assigned))
	for _, c := range cols {
		defs = append(defs, b.quote("column", c.Name)+" "+b.dialect.ColumnType(c.Kind)+" NOT NULL")
	}
	return "CREATE TABLE IF NOT EXISTS " + b.quote("table", table) + " (" + strings.Join(defs, ", ") + ")"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
