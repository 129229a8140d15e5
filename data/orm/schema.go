// Package orm 描述实体与表的映射关系，并在行与实体之间转换
//
// 映射是显式声明的：每个实体类型注册一个 Descriptor，列出表名、主键访问器
// 与有序的列访问器。生成 SQL 文本与生成绑定参数使用同一个有序列切片，
// 两者的列顺序因此不会分叉。
package orm

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"ordermgr/data/db/dialect"
	dbsql "ordermgr/data/db/sql"
	"ordermgr/errors"
)

// ColumnType 列的逻辑类型
type ColumnType string

const (
	TypeInteger ColumnType = dialect.KindInteger
	TypeReal    ColumnType = dialect.KindReal
	TypeText    ColumnType = dialect.KindText
)

// Column 一列的名称、类型与访问器对
//
// Get 读取字段值用于绑定参数；Ref 返回字段地址，作为 Scan 目标写回字段。
type Column[T any] struct {
	Name string
	Type ColumnType
	Get  func(*T) any
	Ref  func(*T) any
}

// Field 由字段指针访问器构造列
//
//	orm.Field("name", orm.TypeText, func(e *Item) *string { return &e.Name })
func Field[T any, V any](name string, typ ColumnType, ptr func(*T) *V) Column[T] {
	return Column[T]{
		Name: name,
		Type: typ,
		Get:  func(e *T) any { return *ptr(e) },
		Ref:  func(e *T) any { return ptr(e) },
	}
}

// Names 返回列名，顺序与 cols 一致
func Names[T any](cols []Column[T]) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Descriptor 实体类型的模式描述，构建后只读，可并发使用
type Descriptor[T any] struct {
	table    string
	idRef    func(*T) *int64
	id       Column[T]
	columns  []Column[T] // 主键在前，其余按声明顺序
	assigned bool
}

// Table 表名
func (d *Descriptor[T]) Table() string { return d.table }

// IDColumn 主键列名
func (d *Descriptor[T]) IDColumn() string { return d.id.Name }

// Assigned 主键是否由调用方提供
func (d *Descriptor[T]) Assigned() bool { return d.assigned }

// Columns 全部列（含主键），顺序稳定
func (d *Descriptor[T]) Columns() []Column[T] {
	return append([]Column[T](nil), d.columns...)
}

// InsertColumns INSERT 使用的列
//
// 主键由数据库生成时不包含主键列，主键由调用方提供时包含。
func (d *Descriptor[T]) InsertColumns() []Column[T] {
	if d.assigned {
		return d.Columns()
	}
	return d.UpdateColumns()
}

// UpdateColumns UPDATE SET 使用的列，即全部非主键列
func (d *Descriptor[T]) UpdateColumns() []Column[T] {
	return append([]Column[T](nil), d.columns[1:]...)
}

// HasColumn 是否声明了该列（大小写不敏感）
func (d *Descriptor[T]) HasColumn(name string) bool {
	return d.indexOf(name) >= 0
}

// Lookup 按名称查找声明的列（大小写不敏感）
func (d *Descriptor[T]) Lookup(name string) (Column[T], bool) {
	if i := d.indexOf(name); i >= 0 {
		return d.columns[i], true
	}
	return Column[T]{}, false
}

func (d *Descriptor[T]) indexOf(name string) int {
	for i, c := range d.columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// ColumnDefs 建表用的列定义（不含主键）
func (d *Descriptor[T]) ColumnDefs() []dbsql.ColumnDef {
	cols := d.UpdateColumns()
	defs := make([]dbsql.ColumnDef, len(cols))
	for i, c := range cols {
		defs[i] = dbsql.ColumnDef{Name: c.Name, Kind: string(c.Type)}
	}
	return defs
}

// DescriptorBuilder 逐步声明 Descriptor
type DescriptorBuilder[T any] struct {
	d    *Descriptor[T]
	errs []string
}

// NewDescriptor 开始声明实体 T 的模式描述
//
// table 为空时按类型名推导：OrderItem -> order_item。
func NewDescriptor[T any](table string) *DescriptorBuilder[T] {
	if table == "" {
		table = TableName[T]()
	}
	return &DescriptorBuilder[T]{d: &Descriptor[T]{table: table}}
}

// Identity 声明主键列及其访问器
func (b *DescriptorBuilder[T]) Identity(name string, ref func(*T) *int64) *DescriptorBuilder[T] {
	if b.d.idRef != nil {
		b.errs = append(b.errs, "identity declared twice")
		return b
	}
	if ref == nil {
		b.errs = append(b.errs, "identity accessor is nil")
		return b
	}
	b.d.idRef = ref
	b.d.id = Field(name, TypeInteger, ref)
	return b
}

// Column 追加一列，顺序即声明顺序
func (b *DescriptorBuilder[T]) Column(c Column[T]) *DescriptorBuilder[T] {
	if c.Get == nil || c.Ref == nil {
		b.errs = append(b.errs, fmt.Sprintf("column %q has no accessors", c.Name))
		return b
	}
	b.d.columns = append(b.d.columns, c)
	return b
}

// Assigned 主键由调用方提供：INSERT 包含主键列，插入后不回读
func (b *DescriptorBuilder[T]) Assigned() *DescriptorBuilder[T] {
	b.d.assigned = true
	return b
}

// Build 校验并返回 Descriptor，失败返回 SCHEMA_ERROR
func (b *DescriptorBuilder[T]) Build() (*Descriptor[T], error) {
	d := b.d
	errs := append([]string(nil), b.errs...)

	if !dbsql.IsSafeIdentifier(d.table) {
		errs = append(errs, fmt.Sprintf("unsafe table name %q", d.table))
	}
	if d.idRef == nil {
		errs = append(errs, "identity column is required")
	}
	if len(d.columns) == 0 {
		errs = append(errs, "at least one non-identity column is required")
	}

	seen := map[string]bool{}
	if d.idRef != nil {
		seen[strings.ToLower(d.id.Name)] = true
		if !dbsql.IsSafeIdentifier(d.id.Name) {
			errs = append(errs, fmt.Sprintf("unsafe identity column name %q", d.id.Name))
		}
	}
	for _, c := range d.columns {
		if !dbsql.IsSafeIdentifier(c.Name) {
			errs = append(errs, fmt.Sprintf("unsafe column name %q", c.Name))
		}
		switch c.Type {
		case TypeInteger, TypeReal, TypeText:
		default:
			errs = append(errs, fmt.Sprintf("column %q has unknown type %q", c.Name, c.Type))
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("duplicate column %q", c.Name))
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return nil, errors.NewError(errors.ErrCodeSchema,
			fmt.Sprintf("descriptor for %s: %s", typeName[T](), strings.Join(errs, "; ")))
	}

	out := &Descriptor[T]{
		table:    d.table,
		idRef:    d.idRef,
		id:       d.id,
		assigned: d.assigned,
		columns:  append([]Column[T]{d.id}, d.columns...),
	}
	return out, nil
}

// MustBuild 同 Build，失败时 panic；用于包初始化
func (b *DescriptorBuilder[T]) MustBuild() *Descriptor[T] {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

// TableName 按类型名推导表名（驼峰转下划线）
func TableName[T any]() string {
	name := typeName[T]()
	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().Name()
}
