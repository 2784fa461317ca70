package configwatcher

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/pkg/logger"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

// debounce 窗口内的连续写入只触发一次重载
const debounce = time.Second

// WatchConfig 监听配置文件所在目录，文件变化后重新加载并回调，ctx 取消后返回
func WatchConfig(ctx context.Context, configFile string, reloader ConfigReloader) error {
	absPath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 编辑器保存时常以 rename 替换文件，监听目录才能收到后续事件
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == absPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(debounce)
			}

		case <-pending:
			pending = nil
			cfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Config reload rejected", zap.String("file", absPath), zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", absPath))
			reloader(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warn("Config watcher error", zap.Error(err))
		}
	}
}
