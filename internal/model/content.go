package model

import (
	"time"

	"gorm.io/datatypes"
)

// 内容类型，仅作约定，不做强校验
const (
	ContentTypeText  = "text"
	ContentTypeVideo = "video"
	ContentTypeQuiz  = "quiz"
)

// ContentItem 课程内容，Content 为任意 JSON 对象
// swagger:model ContentItem
type ContentItem struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint           `gorm:"index;not null" json:"course_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Content   datatypes.JSON `gorm:"not null" json:"content" swaggertype:"object"`
	Order     int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
}

func (ContentItem) TableName() string {
	return "course_content"
}
