package models

import (
	"fmt"
	"regexp"
	"strings"
)

var passwordLetterPattern = regexp.MustCompile(`[a-zA-Z]`)
var passwordDigitPattern = regexp.MustCompile(`\d`)

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// Validate 密码必须包含字母和数字
func (r *RegisterRequest) Validate() error {
	if !passwordLetterPattern.MatchString(r.Password) || !passwordDigitPattern.MatchString(r.Password) {
		return fmt.Errorf("密码必须包含字母和数字且不少于6位")
	}
	return nil
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 用户资料更新请求结构体，nil字段保持原值
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// TaskCreateRequest 任务创建请求结构体
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Validate 标题不允许全空白
func (r *TaskCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("任务标题不能为空")
	}
	return nil
}

// TaskUpdateRequest 任务更新请求结构体，nil字段保持原值
type TaskUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Status      *string `json:"status"`
}

// Validate 状态必须是固定枚举值
func (r *TaskUpdateRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return fmt.Errorf("任务标题不能为空")
	}
	if r.Status != nil && !TaskStatus(*r.Status).IsValid() {
		return fmt.Errorf("无效的任务状态: %s", *r.Status)
	}
	return nil
}
