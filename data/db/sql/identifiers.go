package sql

import "strings"

// isSafeIdentifier 判断标识符是否为安全的数据库标识符
//
// 允许 foo、bar_1 以及 schema.table 形式；每段非空，
// 首字符为 [A-Za-z_]，后续字符为 [A-Za-z0-9_]。
// ASCII 校验足以拦截空格、分号、引号等注入片段。
func isSafeIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			ch := part[i]
			letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
			digit := ch >= '0' && ch <= '9'
			if !letter && (i == 0 || !digit) {
				return false
			}
		}
	}
	return true
}

// IsSafeIdentifier 导出给模式描述做构建期校验
func IsSafeIdentifier(name string) bool {
	return isSafeIdentifier(name)
}
