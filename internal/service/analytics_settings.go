package service

import (
	"elearning_backend/internal/config"
	"sync"
	"time"
)

const day = 24 * time.Hour

// AnalyticsSettings 可热更新的统计参数
type AnalyticsSettings struct {
	mu         sync.RWMutex
	windowDays int
	topLimit   int
}

func NewAnalyticsSettings(cfg config.AnalyticsConfig) *AnalyticsSettings {
	s := &AnalyticsSettings{windowDays: 7, topLimit: 5}
	s.Apply(cfg)
	return s
}

// Apply 忽略非正数
func (s *AnalyticsSettings) Apply(cfg config.AnalyticsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.ActiveWindowDays > 0 {
		s.windowDays = cfg.ActiveWindowDays
	}
	if cfg.TopCoursesLimit > 0 {
		s.topLimit = cfg.TopCoursesLimit
	}
}

// Window 活跃窗口长度
func (s *AnalyticsSettings) Window() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.windowDays) * day
}

func (s *AnalyticsSettings) TopLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topLimit
}
