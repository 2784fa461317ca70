package service

import (
	"context"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// snapshotTimeout 单次快照的查询超时
const snapshotTimeout = 30 * time.Second

// AnalyticsSnapshot 定期计算参与度与留存率并写入 Prometheus 指标
type AnalyticsSnapshot struct {
	Analytics *AnalyticsService
}

func NewAnalyticsSnapshot(analytics *AnalyticsService) *AnalyticsSnapshot {
	return &AnalyticsSnapshot{Analytics: analytics}
}

// Refresh 计算一次快照，任一指标失败时保留旧值
func (j *AnalyticsSnapshot) Refresh(ctx context.Context) error {
	engagement, err := j.Analytics.UserEngagement(ctx)
	if err != nil {
		return err
	}
	retention, err := j.Analytics.RetentionRates(ctx)
	if err != nil {
		return err
	}

	monitoring.ActiveUsers.Set(float64(engagement.ActiveUsers))
	monitoring.InteractionsPerUser.Set(engagement.InteractionsPerUser)
	monitoring.RetentionRate.Set(float64(retention.RetentionRate))

	logger.Log.Debug("Analytics snapshot refreshed",
		zap.Int64("active_users", engagement.ActiveUsers),
		zap.Float64("interactions_per_user", engagement.InteractionsPerUser),
		zap.Int("retention_rate", retention.RetentionRate),
	)
	return nil
}

// Schedule 按 cron 表达式注册快照任务，返回的调度器由调用方 Start/Stop
func (j *AnalyticsSnapshot) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		if err := j.Refresh(ctx); err != nil {
			logger.Log.Error("Analytics snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Analytics snapshot scheduled", zap.String("spec", spec))
	return c, nil
}
