package testsupport

import (
	"elearning_backend/internal/model"
	"elearning_backend/pkg/database"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB 打开一个独立的内存 SQLite 库并完成迁移，测试结束时关闭
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// 共享缓存的内存库在多连接下容易出现表锁
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// Fixtures 测试数据构造
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(v interface{}) {
	f.t.Helper()
	if err := f.db.Create(v).Error; err != nil {
		f.t.Fatalf("failed to create fixture %T: %v", v, err)
	}
}

func (f *Fixtures) CreateUser(role model.UserRole) *model.User {
	f.t.Helper()
	f.n++
	user := &model.User{
		Name:     fmt.Sprintf("user%d", f.n),
		Email:    fmt.Sprintf("user%d@example.com", f.n),
		Password: "not-a-real-hash",
		Role:     role,
	}
	f.create(user)
	return user
}

func (f *Fixtures) CreateCourse(instructorID uint) *model.Course {
	f.t.Helper()
	f.n++
	course := &model.Course{
		Title:        fmt.Sprintf("course%d", f.n),
		Description:  "fixture",
		InstructorID: instructorID,
	}
	f.create(course)
	return course
}

func (f *Fixtures) CreateContent(courseID uint, order int) *model.ContentItem {
	f.t.Helper()
	item := &model.ContentItem{
		CourseID: courseID,
		Type:     model.ContentTypeText,
		Content:  datatypes.JSON(`{"body":"fixture"}`),
		Order:    order,
	}
	f.create(item)
	return item
}

func (f *Fixtures) Enroll(userID, courseID uint) *model.Enrollment {
	f.t.Helper()
	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	f.create(enrollment)
	return enrollment
}

func (f *Fixtures) Complete(userID, courseID, contentID uint, timeSpent int, at time.Time) *model.Progress {
	f.t.Helper()
	progress := &model.Progress{
		UserID:      userID,
		CourseID:    courseID,
		ContentID:   contentID,
		TimeSpent:   timeSpent,
		CompletedAt: at.UTC(),
	}
	f.create(progress)
	return progress
}
