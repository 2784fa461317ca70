package controller

// IDURI 路径参数 :id
type IDURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// CourseURI 路径参数 :course_id
type CourseURI struct {
	CourseID uint `uri:"course_id" binding:"required,min=1"`
}

// UserURI 路径参数 :user_id
type UserURI struct {
	UserID uint `uri:"user_id" binding:"required,min=1"`
}

// UserCourseURI 路径参数 :user_id/:course_id
type UserCourseURI struct {
	UserID   uint `uri:"user_id" binding:"required,min=1"`
	CourseID uint `uri:"course_id" binding:"required,min=1"`
}
