package model

import "time"

// CompletionPercentage 用户在课程中的完成百分比 0-100
type CompletionPercentage struct {
	CompletionPercentage int `json:"completionPercentage"`
}

// TimeAnalytics 课程学习时长统计（秒）
type TimeAnalytics struct {
	TotalTimeSpent   int64   `json:"totalTimeSpent"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
}

// CompletionRate 完成全部内容的报名用户占比 0-100
type CompletionRate struct {
	CompletionRate int `json:"completionRate"`
}

// PopularCourse 热门课程
type PopularCourse struct {
	CourseID        uint  `json:"course_id"`
	EnrollmentCount int64 `json:"enrollment_count"`
}

// UserEngagement 活跃窗口内的用户参与度
type UserEngagement struct {
	ActiveUsers         int64   `json:"activeUsers"`
	InteractionsPerUser float64 `json:"interactionsPerUser"`
}

// UserRetention 单个用户的留存情况
type UserRetention struct {
	UserID                    uint `json:"user_id"`
	DaysSinceFirstInteraction int  `json:"daysSinceFirstInteraction"`
	IsActive                  bool `json:"isActive"`
}

// RetentionSummary 留存率及明细，仅包含有学习记录的用户
type RetentionSummary struct {
	RetentionRate int             `json:"retentionRate"`
	UserRetention []UserRetention `json:"userRetention"`
}

// ContentPopularity 内容完成次数
type ContentPopularity struct {
	ContentID    uint  `json:"content_id"`
	Interactions int64 `json:"interactions"`
}

// ProgressTimelineEntry 学习时间线节点
type ProgressTimelineEntry struct {
	ContentID   uint      `json:"content_id"`
	CompletedAt time.Time `json:"completed_at"`
	TimeSpent   int       `json:"time_spent"`
}

// CourseProgress 仪表盘中的课程及其学习记录
type CourseProgress struct {
	Course
	CompletionPercentage int        `json:"completionPercentage"`
	Progress             []Progress `json:"progress"`
}

// Dashboard 用户仪表盘
type Dashboard struct {
	Courses       []CourseProgress `json:"courses"`
	Notifications []Notification   `json:"notifications"`
}
