package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/pkg/common"
)

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived in-process cache.
type ConfigManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
	stamp time.Time
	ttl   time.Duration
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{
		db:    db,
		cache: map[string]string{},
		ttl:   30 * time.Second,
	}
}

func (m *ConfigManager) lookup(category, name string) string {
	key := category + "." + name

	m.mu.RLock()
	fresh := time.Since(m.stamp) < m.ttl
	value, hit := m.cache[key]
	m.mu.RUnlock()
	if fresh && hit {
		return value
	}

	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return value
	}

	m.mu.Lock()
	m.cache = make(map[string]string, len(rows))
	for _, row := range rows {
		m.cache[row.Type+"."+row.Name] = row.Value
	}
	m.stamp = time.Now()
	value = m.cache[key]
	m.mu.Unlock()
	return value
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.lookup(category, name)
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.lookup(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.lookup(category, name))
}

// Save upserts a settings row and invalidates the cache.
func (m *ConfigManager) Save(category, name, value string) error {
	var row domain.SysConfig
	err := m.db.Where("type = ? and name = ?", category, name).First(&row).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		err = m.db.Create(&domain.SysConfig{
			ID:    common.UUIDint64(),
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	case err == nil:
		err = m.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.stamp = time.Time{}
	m.mu.Unlock()
	return nil
}
