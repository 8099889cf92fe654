package services

import (
	"errors"
	"fmt"
)

// 服务层错误分类，控制器据此映射HTTP状态码
var (
	// ErrNotFound 记录不存在或不属于当前用户，两者对外不作区分
	ErrNotFound = errors.New("记录不存在或无权访问")

	// ErrEmailExists 邮箱已被占用
	ErrEmailExists = errors.New("邮箱已被注册")

	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// ValidationError 输入校验错误
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
