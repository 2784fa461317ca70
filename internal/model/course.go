package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	InstructorID uint   `gorm:"index;not null" json:"instructor_id"`
}

func (Course) TableName() string {
	return "courses"
}

// FeaturedCourse 按报名人数排序的课程，包含无人报名的课程
type FeaturedCourse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
}
