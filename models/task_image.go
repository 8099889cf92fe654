package models

import (
	"time"
)

// TaskImage 图片模型，上传后先作为临时记录，任务描述引用后转为永久
type TaskImage struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	UserID             int64     `gorm:"not null;index" json:"-"`
	Filename           string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalFilename   string    `gorm:"type:varchar(255);not null" json:"originalFilename"`
	ContentType        string    `gorm:"type:varchar(100);not null" json:"contentType"`
	FileSize           int64     `gorm:"not null" json:"fileSize"`
	Bucket             string    `gorm:"type:varchar(100);not null" json:"-"`
	ObjectKey          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	UploadOrder        int       `gorm:"not null;default:0" json:"uploadOrder"`
	IsTemporary        bool      `gorm:"not null;default:true" json:"isTemporary"`
	DescriptionContent *string   `gorm:"type:text" json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
