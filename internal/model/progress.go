package model

import "time"

// Progress 一次内容完成记录，创建后不再修改
// 同一用户在同一课程下同一内容只能有一条记录
// swagger:model Progress
type Progress struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_progress_user_course_content" json:"user_id"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_progress_user_course_content;index" json:"course_id"`
	ContentID   uint      `gorm:"not null;uniqueIndex:idx_progress_user_course_content" json:"content_id"`
	TimeSpent   int       `gorm:"not null;default:0" json:"time_spent"` // 秒
	CompletedAt time.Time `gorm:"not null;index" json:"completed_at"`

	Content *ContentItem `gorm:"foreignKey:ContentID" json:"content,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}
