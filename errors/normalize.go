package errors

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stdErrors "errors"
)

// Normalize 将 database/sql 层的常见错误规范化为 AppError。
//
// 约定：
//   - 已经是 IError 的错误原样返回；
//   - sql.ErrNoRows 视为 NOT_FOUND；
//   - 连接已关闭、坏连接、上下文取消/超时视为 CONNECTION_ERROR；
//   - 其余错误保持原样，交由调用方决定错误代码。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(IError); ok {
		return err
	}

	if stdErrors.Is(err, sql.ErrNoRows) {
		return WrapError(err, ErrCodeNotFound, "record not found")
	}

	if stdErrors.Is(err, sql.ErrConnDone) ||
		stdErrors.Is(err, driver.ErrBadConn) ||
		stdErrors.Is(err, context.Canceled) ||
		stdErrors.Is(err, context.DeadlineExceeded) {
		return WrapError(err, ErrCodeConnection, "connection unavailable")
	}

	return err
}
