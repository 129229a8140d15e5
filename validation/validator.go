// Package validation 提供实体写入前的字段校验函数，失败时返回 VALIDATION_ERROR。
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"ordermgr/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IValidatable 可验证接口
//
// 仓储在 Insert/Update 前对实现了该接口的实体调用 Validate。
type IValidatable interface {
	Validate() error
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateStringLength 验证字符串长度，max <= 0 表示不限上限
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at least %d characters (got %d)", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be at most %d characters (got %d)", fieldName, max, length))
	}
	return nil
}

// ValidateNonNegative 验证非负整数
func ValidateNonNegative(value int, fieldName string) error {
	if value < 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s cannot be negative (got %d)", fieldName, value))
	}
	return nil
}

// ValidateNonNegativeFloat 验证非负有限浮点数
func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be a finite number", fieldName))
	}
	if value < 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s cannot be negative (got %g)", fieldName, value))
	}
	return nil
}

// ValidatePositive 验证正数
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must be positive (got %d)", fieldName, value))
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	if email == "" {
		return errors.NewError(errors.ErrCodeValidation, "email is required")
	}

	if !emailRegex.MatchString(email) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("email %q is malformed", email))
	}
	return nil
}

// ValidateID 验证引用ID有效性
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s must reference an existing row (got %d)", fieldName, id))
	}
	return nil
}
