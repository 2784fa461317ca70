package repository

import (
	"context"
	"elearning_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Create 同一 (user, course, content) 重复写入时返回 gorm.ErrDuplicatedKey
func (r *ProgressRepository) Create(ctx context.Context, p *model.Progress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// CountDistinctContent 用户在课程中完成的不同内容数
func (r *ProgressRepository) CountDistinctContent(ctx context.Context, userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Distinct("content_id").
		Count(&count).Error
	return count, err
}

// SumTimeByCourse 课程所有记录的时长总和与记录数
func (r *ProgressRepository) SumTimeByCourse(ctx context.Context, courseID uint) (total int64, records int64, err error) {
	var row struct {
		Total   int64
		Records int64
	}
	err = r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Select("COALESCE(SUM(time_spent), 0) AS total, COUNT(*) AS records").
		Where("course_id = ?", courseID).
		Scan(&row).Error
	return row.Total, row.Records, err
}

// CountUsersCompleted 在课程中完成了 totalContent 个不同内容的用户数
func (r *ProgressRepository) CountUsersCompleted(ctx context.Context, courseID uint, totalContent int64) (int64, error) {
	db := r.DB.WithContext(ctx)
	completed := db.Model(&model.Progress{}).
		Select("user_id").
		Where("course_id = ?", courseID).
		Group("user_id").
		Having("COUNT(DISTINCT content_id) = ?", totalContent)

	var count int64
	err := db.Table("(?) AS completed_users", completed).Count(&count).Error
	return count, err
}

// CountSince since 之后的完成记录数及不同用户数
func (r *ProgressRepository) CountSince(ctx context.Context, since time.Time) (interactions int64, users int64, err error) {
	var row struct {
		Interactions int64
		Users        int64
	}
	err = r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Select("COUNT(*) AS interactions, COUNT(DISTINCT user_id) AS users").
		Where("completed_at >= ?", since).
		Scan(&row).Error
	return row.Interactions, row.Users, err
}

// FirstInteractions 每个用户最早一条记录的完成时间
func (r *ProgressRepository) FirstInteractions(ctx context.Context) (map[uint]time.Time, error) {
	rows, err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Select("user_id, completed_at").
		Order("user_id ASC, completed_at ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	first := make(map[uint]time.Time)
	for rows.Next() {
		var p model.Progress
		if err := r.DB.ScanRows(rows, &p); err != nil {
			return nil, err
		}
		if _, seen := first[p.UserID]; !seen {
			first[p.UserID] = p.CompletedAt
		}
	}
	return first, rows.Err()
}

// ActiveUserIDs since 之后有完成记录的用户
func (r *ProgressRepository) ActiveUserIDs(ctx context.Context, since time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Where("completed_at >= ?", since).
		Distinct().
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ContentPopularity 按内容分组的完成次数，次数相同按内容ID升序
func (r *ProgressRepository) ContentPopularity(ctx context.Context, courseID uint) ([]model.ContentPopularity, error) {
	var items []model.ContentPopularity
	err := r.DB.WithContext(ctx).
		Model(&model.Progress{}).
		Select("content_id, COUNT(*) AS interactions").
		Where("course_id = ?", courseID).
		Group("content_id").
		Order("COUNT(*) DESC, content_id ASC").
		Scan(&items).Error
	return items, err
}

// ListByUserCourse 按完成时间升序
func (r *ProgressRepository) ListByUserCourse(ctx context.Context, userID, courseID uint, withContent bool) ([]model.Progress, error) {
	var records []model.Progress
	q := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at ASC, id ASC")
	if withContent {
		q = q.Preload("Content")
	}
	err := q.Find(&records).Error
	return records, err
}
