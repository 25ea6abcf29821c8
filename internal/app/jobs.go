package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		days := a.configManager.GetInt64("retention", "oprlog_days")
		if days <= 0 {
			days = 365
		}
		a.gormDB.
			Where("opt_time < ?", time.Now().Add(-time.Hour*24*time.Duration(days))).
			Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if a.appConfig.ImageStore.Mode != "remote" {
		_, err = a.sched.AddFunc("@daily", a.sweepOrphanImages)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// sweepOrphanImages removes local image files no product references
// anymore. Upload failures and crashed edits can leave these behind.
func (a *Application) sweepOrphanImages() {
	dir := a.appConfig.ImageStore.LocalDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("orphan image sweep failed", zap.Error(err))
		}
		return
	}

	var refs []string
	if err := a.gormDB.Model(&domain.Product{}).Pluck("image", &refs).Error; err != nil {
		zap.L().Warn("orphan image sweep query failed", zap.Error(err))
		return
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[ref] = struct{}{}
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		// keep very recent files, an upload may still be in flight
		if info, err := entry.Info(); err == nil && time.Since(info.ModTime()) < time.Hour {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		zap.L().Info("orphan image sweep done", zap.Int("removed", removed))
	}
}
