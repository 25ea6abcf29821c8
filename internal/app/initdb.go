package app

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minimart-io/minimart/config"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/pkg/common"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	gormConfig := &gorm.Config{
		TranslateError: true,
	}
	if cfg.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "sqlite":
		dsn := filepath.Join(workdir, "minimart.db")
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

// checkSuper seeds the default administrator account when none exists.
func (a *Application) checkSuper() {
	const defaultEmail = "admin@minimart.local"
	const defaultPassword = "minimart"

	var count int64
	if err := a.gormDB.Model(&domain.SysAdmin{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to query admin accounts", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hashed, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	if err := a.gormDB.Create(&domain.SysAdmin{
		ID:        common.UUIDint64(),
		Name:      "administrator",
		Email:     defaultEmail,
		Password:  hashed,
		LastLogin: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to create default admin", zap.Error(err))
		return
	}
	zap.L().Info("initialized default admin account", zap.String("email", defaultEmail))
}

// checkSettings initializes missing runtime settings rows.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Sort: 1, Type: "storefront", Name: "title", Value: "minimart", Remark: "Store display name"},
		{Sort: 2, Type: "storefront", Name: "currency", Value: "INR", Remark: "Display currency code"},
		{Sort: 3, Type: "retention", Name: "oprlog_days", Value: "365", Remark: "Days to keep admin operation logs"},
	}

	for _, s := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", s.Type, s.Name).
			Count(&count)

		if count == 0 {
			s.ID = common.UUIDint64()
			a.gormDB.Create(&s)
			zap.L().Info("initialized config",
				zap.String("key", s.Type+"."+s.Name),
				zap.String("default", s.Value))
		}
	}
}
