package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Log      *LogConfig      `mapstructure:"log"`
	Otel     *OtelConfig     `mapstructure:"otel"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OtelConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	CollectorURL string  `mapstructure:"collector_url"`
	Insecure     bool    `mapstructure:"insecure"`
	TraceIDRatio float64 `mapstructure:"trace_id_ratio"`
}

// Load reads the YAML file at path and overlays environment variables on top of it,
// e.g. DATABASE_DSN overrides database.dsn. A missing file is not an error; defaults apply.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return unmarshal(v)
}

// Watch re-reads the file at path whenever it changes and hands the fresh config to fn.
func Watch(path string, fn func(*AppConfig)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		reload(v, fn)
	})
	v.WatchConfig()

	return nil
}

func reload(v *viper.Viper, fn func(*AppConfig)) {
	conf, err := unmarshal(v)
	if err != nil {
		zap.L().Warn("ignoring reloaded config", zap.String("file", v.ConfigFileUsed()), zap.Error(err))
		return
	}
	fn(conf)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.base_url", "localhost:8000")
	v.SetDefault("api.port", "8000")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "./inventory.db")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")

	v.SetDefault("otel.service_name", "inventory-api")
	v.SetDefault("otel.collector_url", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.trace_id_ratio", 0.1)
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	conf.Database.Driver = strings.ToLower(conf.Database.Driver)
	if conf.Database.Driver != DriverSQLite && conf.Database.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}

	return conf, nil
}
