// Package config 从环境变量加载进程配置
//
// GO_ENV=local 时先加载当前目录的 .env 文件。
package config

import (
	"io"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	core "ordermgr/data/db"
	"ordermgr/errors"
	"ordermgr/logging"
)

func Load() (*Config, error) {
	var cfg Config
	if os.Getenv("GO_ENV") == "local" {
		_ = godotenv.Load(".env")
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "parse environment failed")
	}
	return &cfg, nil
}

type Config struct {
	DB
	Log
}

type DB struct {
	Driver          string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN             string `env:"DB_DSN" envDefault:"ordermgr.db"`
	MaxOpenConns    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"0"`
	MaxIdleConns    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"0"`
	ConnMaxLifetime int    `env:"DB_CONN_MAX_LIFETIME" envDefault:"0"`
	ConnMaxIdleTime int    `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"0"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// DBConfig 转换为连接层配置
func (c Config) DBConfig() core.DBConfig {
	return core.DBConfig{
		Driver:          c.DB.Driver,
		DSN:             c.DB.DSN,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
		ConnMaxIdleTime: c.DB.ConnMaxIdleTime,
	}
}

// NewLogger 按日志配置构造 logrus 后端
func (c Config) NewLogger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, "invalid LOG_LEVEL")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "LOG_FORMAT must be text or json, got "+c.Log.Format)
	}
	return logging.NewLogrus(w, level, c.Log.Format), nil
}
