package orm

import (
	"fmt"
	"strings"

	core "ordermgr/data/db"
	"ordermgr/errors"
)

// Scanner 当前行的扫描器，core.IRows 与 core.IRow 都满足
type Scanner interface {
	Scan(dest ...any) error
}

// RowMapper 把结果集的列按名称对应到实体字段
//
// 结果集中未声明的列被丢弃；声明的列在结果集中缺失时构造失败。
type RowMapper[T any] struct {
	d       *Descriptor[T]
	targets []int // 结果列下标 -> 描述列下标，-1 表示丢弃
}

// NewRowMapper 按结果集列名构造映射，失败返回 MAPPING_ERROR
func NewRowMapper[T any](d *Descriptor[T], resultCols []string) (*RowMapper[T], error) {
	targets := make([]int, len(resultCols))
	found := make([]bool, len(d.columns))
	for i, name := range resultCols {
		idx := d.indexOf(name)
		targets[i] = idx
		if idx >= 0 {
			if found[idx] {
				return nil, errors.NewError(errors.ErrCodeMapping,
					fmt.Sprintf("%s: column %q appears twice in result set", d.table, name))
			}
			found[idx] = true
		}
	}

	var missing []string
	for i, ok := range found {
		if !ok {
			missing = append(missing, d.columns[i].Name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewError(errors.ErrCodeMapping,
			fmt.Sprintf("%s: result set lacks column(s) %s", d.table, strings.Join(missing, ", ")))
	}

	return &RowMapper[T]{d: d, targets: targets}, nil
}

// Map 将当前行写入新实体，字段类型不兼容返回 MAPPING_ERROR
func (m *RowMapper[T]) Map(row Scanner) (*T, error) {
	e := new(T)
	dest := make([]any, len(m.targets))
	for i, idx := range m.targets {
		if idx < 0 {
			dest[i] = new(any)
			continue
		}
		dest[i] = m.d.columns[idx].Ref(e)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeMapping,
			fmt.Sprintf("%s: cannot convert row", m.d.table))
	}
	return e, nil
}

// RowToEntity 映射 rows 的当前行
func RowToEntity[T any](rows core.IRows, d *Descriptor[T]) (*T, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeQuery, "read result columns failed")
	}
	m, err := NewRowMapper(d, cols)
	if err != nil {
		return nil, err
	}
	return m.Map(rows)
}

// ScanAll 映射 rows 的全部剩余行，不关闭 rows
//
// 没有任何行时返回非 nil 的空切片。迭代错误返回 QUERY_ERROR。
func ScanAll[T any](rows core.IRows, d *Descriptor[T]) ([]T, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeQuery, "read result columns failed")
	}
	m, err := NewRowMapper(d, cols)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for rows.Next() {
		e, err := m.Map(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(errors.Normalize(err), errors.ErrCodeQuery, "iterate rows failed")
	}
	return out, nil
}

// EntityToParams 按 cols 顺序读取实体字段作为绑定参数
func EntityToParams[T any](e *T, cols []Column[T]) []any {
	params := make([]any, len(cols))
	for i, c := range cols {
		params[i] = c.Get(e)
	}
	return params
}

// ReadID 读取实体主键
func ReadID[T any](e *T, d *Descriptor[T]) (int64, error) {
	if e == nil {
		return 0, errors.NewError(errors.ErrCodeMapping, d.table+": cannot read identity of nil entity")
	}
	return *d.idRef(e), nil
}

// WriteID 写入实体主键
func WriteID[T any](e *T, d *Descriptor[T], id int64) error {
	if e == nil {
		return errors.NewError(errors.ErrCodeMapping, d.table+": cannot write identity of nil entity")
	}
	*d.idRef(e) = id
	return nil
}
