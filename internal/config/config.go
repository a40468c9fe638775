package config

import (
	"fmt"
	"strings"

	"github.com/preseason-import/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Mode     string         `mapstructure:"mode"` // debug / release
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Import   ImportConfig   `mapstructure:"import"`
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// ImportConfig 导入任务配置
type ImportConfig struct {
	File      string `mapstructure:"file"`       // Excel 文件路径
	Sheet     string `mapstructure:"sheet"`      // 工作表名（为空取第一个）
	Season    string `mapstructure:"season"`     // 季节名称，如 "Fall 2025"
	Mappings  string `mapstructure:"mappings"`   // 标签映射数据文件路径
	CreatedBy uint   `mapstructure:"created_by"` // 订单创建人 ID
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")   // 从 cmd/import 运行时
	viper.AddConfigPath("./etc") // etc 文件夹

	viper.SetDefault("mode", "release")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "import.log")
	viper.SetDefault("log.max_size_mb", 50)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/orders.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("import.file", "")
	viper.SetDefault("import.sheet", "")
	viper.SetDefault("import.season", "")
	viper.SetDefault("import.mappings", "./etc/mappings.yml")
	viper.SetDefault("import.created_by", 1)

	// 环境变量支持
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("parse config: %w", err))
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	return &cfg
}
