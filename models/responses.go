package models

import (
	"time"
)

// UserResponse 用户响应结构体
type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ToResponse 转换为用户响应
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse 认证响应结构体
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ImageResponse 图片响应结构体
type ImageResponse struct {
	ID               int64     `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	ContentType      string    `json:"contentType"`
	FileSize         int64     `json:"fileSize"`
	UploadOrder      int       `json:"uploadOrder"`
	IsTemporary      bool      `json:"isTemporary"`
	ImageURL         string    `json:"imageUrl"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TaskResponse 任务响应结构体，images按描述中引用顺序排列
type TaskResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      TaskStatus      `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Images      []ImageResponse `json:"images"`
}
