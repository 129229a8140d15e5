package dialect

import (
	"strconv"
	"strings"
)

// Name 标准化的数据库方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// 列的逻辑类型，由模式描述声明，建表时映射为方言类型
const (
	KindInteger = "INTEGER"
	KindReal    = "REAL"
	KindText    = "TEXT"
)

// Dialect 表示当前数据库的方言能力
//
// 只抽象仓储实际用到的能力：
//   - 标识符引号与占位符改写
//   - 插入后主键回读方式（LastInsertId 或 RETURNING）
//   - 唯一键冲突识别
//   - 建表时的列类型
type Dialect struct {
	name Name
}

// New 根据 driver 或方言名构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// nameProvider 与 db.IDialectNameProvider 同形，避免反向依赖 db 包
type nameProvider interface {
	GetDialectName() string
}

// Of 从连接推断方言；未实现 GetDialectName 的对象返回 Unknown
func Of(v any) Dialect {
	if p, ok := v.(nameProvider); ok && p != nil {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 根据方言对标识符加引号（如表名/列名）。
//
// 约定：
//   - 支持 schema.table 形式，会对每一段分别加引号；
//   - MySQL 使用反引号 `name`，Postgres/SQLite 使用双引号 "name"；
//   - Unknown 方言返回原始字符串。
//
// 该方法不负责校验标识符语法。user、order 这类保留字表名依赖它才能正常执行。
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		switch d.name {
		case NameMySQL:
			parts[i] = "`" + p + "`"
		case NameSQLite, NamePostgres:
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind 将通用占位符 ? 转换为方言特定形式。
//
// 仅对 Postgres 做替换，将 ? 依次替换为 $1、$2...；其他方言保持原样。
// 简单字符扫描，不识别字符串字面量中的 ?；本包生成的语句从不内联字面量。
func (d Dialect) Rebind(query string) string {
	if query == "" || d.name != NamePostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 4)
	argIndex := 1
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if ch == '?' {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(argIndex))
			argIndex++
		} else {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// SupportsReturning 插入时是否应使用 RETURNING 回读主键
//
// pgx 等 Postgres 驱动不实现 LastInsertId。
func (d Dialect) SupportsReturning() bool {
	return d.name == NamePostgres
}

// ColumnType 返回逻辑类型对应的列类型
func (d Dialect) ColumnType(kind string) string {
	switch d.name {
	case NamePostgres:
		switch kind {
		case KindInteger:
			return "BIGINT"
		case KindReal:
			return "DOUBLE PRECISION"
		}
	case NameMySQL:
		switch kind {
		case KindInteger:
			return "BIGINT"
		case KindReal:
			return "DOUBLE"
		}
	}
	return kind
}

// IdentityColumn 返回主键列定义（不含列名）
//
// assigned 为 true 时主键由调用方提供，不使用自增。
func (d Dialect) IdentityColumn(assigned bool) string {
	if assigned {
		return d.ColumnType(KindInteger) + " PRIMARY KEY"
	}
	switch d.name {
	case NamePostgres:
		return "BIGSERIAL PRIMARY KEY"
	case NameMySQL:
		return "BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// IsUniqueViolation 判断错误是否为唯一键/主键冲突
//
// 使用错误消息关键字匹配：
//   - MySQL: "Duplicate entry"
//   - SQLite: "UNIQUE constraint failed"
//   - Postgres: "duplicate key value", SQLSTATE 23505
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch d.name {
	case NameMySQL:
		return strings.Contains(msg, "duplicate entry") ||
			strings.Contains(msg, "duplicate key")
	case NameSQLite:
		return strings.Contains(msg, "unique constraint failed")
	case NamePostgres:
		return strings.Contains(msg, "duplicate key") ||
			strings.Contains(msg, "23505")
	default:
		return strings.Contains(msg, "duplicate key") ||
			strings.Contains(msg, "unique constraint")
	}
}
