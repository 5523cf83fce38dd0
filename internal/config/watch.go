package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-reads the config file whenever it changes and hands the fresh
// Config to onReload. The exclusion list is the usual reason: quality adjusts
// it during the day and the dashboard should follow without a restart. Shift
// table changes are picked up too but only take effect for new calendars.
// Watch blocks until ctx is cancelled; run it in its own goroutine.
func Watch(ctx context.Context, path string, logger *zap.Logger, onReload func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config reload failed, keeping previous", zap.Error(err))
				continue
			}
			logger.Info("config reloaded",
				zap.String("path", path),
				zap.Int("excludedDefectCodes", len(cfg.ExcludedDefectCodes)))
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
