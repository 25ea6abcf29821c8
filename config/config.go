package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Secret        string `yaml:"secret" json:"secret"`
	PublicDir     string `yaml:"public_dir" json:"public_dir"`
	SessionMaxAge int    `yaml:"session_max_age" json:"session_max_age"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// ImageStoreConfig selects and parameterizes the product image storage strategy.
// Mode is "local" or "remote"; the remote settings address an image hosting API.
type ImageStoreConfig struct {
	Mode      string `yaml:"mode" json:"mode"`
	LocalDir  string `yaml:"local_dir" json:"local_dir"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	APIKey    string `yaml:"api_key" json:"api_key"`
	APISecret string `yaml:"api_secret" json:"api_secret"`
	Folder    string `yaml:"folder" json:"folder"`
}

type AppConfig struct {
	System     SysConfig        `yaml:"system" json:"system"`
	Web        WebConfig        `yaml:"web" json:"web"`
	Database   DBConfig         `yaml:"database" json:"database"`
	ImageStore ImageStoreConfig `yaml:"imagestore" json:"imagestore"`
	Logger     LoggerConfig     `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "minimart",
		Location: "Asia/Kolkata",
		Workdir:  "/var/minimart",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          3000,
		Secret:        "9b6de5cc-0001-0001-0001-c0a80101",
		PublicDir:     "public",
		SessionMaxAge: 3600,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "minimart",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	ImageStore: ImageStoreConfig{
		Mode:     "local",
		LocalDir: filepath.Join("public", "product-images"),
		Folder:   "product-images",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/minimart/minimart.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if value := os.Getenv(name); value != "" {
		f(value)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	if value := os.Getenv(name); value != "" {
		f(cast.ToBool(value))
	}
}

func setEnvIntValue(name string, f func(v int)) {
	if value := os.Getenv(name); value != "" {
		f(cast.ToInt(value))
	}
}

// LoadConfig reads the YAML config file when present and applies MINIMART_*
// environment overrides on top of the defaults. Keys absent from the file
// keep their default values.
func LoadConfig(cfile string) (*AppConfig, error) {
	defaults := *DefaultAppConfig
	cfg := &defaults
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", cfile, err)
			}
		}
	}

	setEnvValue("MINIMART_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("MINIMART_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("MINIMART_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("MINIMART_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("MINIMART_WEB_PORT", func(v int) { cfg.Web.Port = v })
	setEnvValue("MINIMART_WEB_SECRET", func(v string) { cfg.Web.Secret = v })

	setEnvValue("MINIMART_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("MINIMART_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("MINIMART_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("MINIMART_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("MINIMART_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("MINIMART_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("MINIMART_IMAGESTORE_MODE", func(v string) { cfg.ImageStore.Mode = v })
	setEnvValue("MINIMART_IMAGESTORE_DIR", func(v string) { cfg.ImageStore.LocalDir = v })
	setEnvValue("MINIMART_IMAGESTORE_ENDPOINT", func(v string) { cfg.ImageStore.Endpoint = v })
	setEnvValue("MINIMART_IMAGESTORE_API_KEY", func(v string) { cfg.ImageStore.APIKey = v })
	setEnvValue("MINIMART_IMAGESTORE_API_SECRET", func(v string) { cfg.ImageStore.APISecret = v })

	setEnvValue("MINIMART_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("MINIMART_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })
	setEnvValue("MINIMART_LOGGER_FILENAME", func(v string) { cfg.Logger.Filename = v })

	return cfg, nil
}
