package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/minimart-io/minimart/config"
	"github.com/minimart-io/minimart/internal/imagestore"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// ImageStoreProvider provides the configured image storage strategy
type ImageStoreProvider interface {
	ImageStore() imagestore.Store
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides runtime settings access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	ImageStoreProvider
	SchedulerProvider
	ConfigManagerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
