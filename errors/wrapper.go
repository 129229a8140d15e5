package errors

import (
	"context"
	"fmt"
	"runtime"

	"ordermgr/logging"
)

// WrapWithLog 包装错误并记录警告日志
//
// logger 为 nil 时使用全局 Logger。每个错误只应在产生它的边界记录一次，
// 上层拿到的 IError 不需要再次记录。
func WrapWithLog(ctx context.Context, logger logging.Logger, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	_, file, line, _ := runtime.Caller(1)

	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)

	logger.Warn(ctx, msg, allFields...)

	return wrapped
}

// New 创建新错误（带调用位置）
func New(code ErrorCode, msg string) error {
	_, file, line, _ := runtime.Caller(1)
	enhancedMsg := fmt.Sprintf("%s (at %s:%d)", msg, file, line)
	return NewError(code, enhancedMsg)
}

// NewValidationError 创建新的验证错误
func NewValidationError(msg string) error {
	return NewError(ErrCodeValidation, msg)
}
