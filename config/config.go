// Package config 读取 YAML 配置文件并用环境变量覆盖 (方便 Docker 部署)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config 全部配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Render   RenderConfig   `yaml:"render"`
	PathsDir string         `yaml:"paths_dir"` // 启动时导入的路径 JSON 目录
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// DatabaseConfig PostgreSQL 连接参数, Host 为空时使用内存存储
type DatabaseConfig struct {
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port" validate:"required_with=Host"`
	User          string        `yaml:"user" validate:"required_with=Host"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name" validate:"required_with=Host"`
	SSLMode       string        `yaml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	TimeZone      string        `yaml:"timezone"`
	MaxRetries    int           `yaml:"max_retries" validate:"gte=1"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// Enabled 是否配置了数据库
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN gorm/postgres 使用的连接串
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
	if d.TimeZone != "" {
		dsn += " TimeZone=" + d.TimeZone
	}
	return dsn
}

// AuthConfig 上传接口的管理员账号
// PasswordHash 为 bcrypt 哈希; 只给了 Password 时启动时再加密
type AuthConfig struct {
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	PasswordHash string        `yaml:"password_hash"`
	JWTSecret    string        `yaml:"jwt_secret" validate:"omitempty,min=16"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// Enabled 用户名、密码和密钥都齐全时才开启上传
func (a AuthConfig) Enabled() bool {
	return a.Username != "" && (a.Password != "" || a.PasswordHash != "") && a.JWTSecret != ""
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir"`
}

// RenderConfig 静态图尺寸和交互地图的底图
type RenderConfig struct {
	WidthInches  float64 `yaml:"width_inches" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" validate:"gt=0"`
	DPI          int     `yaml:"dpi" validate:"gt=0,lte=1200"`
	TileURL      string  `yaml:"tile_url" validate:"required"`
	Attribution  string  `yaml:"attribution"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			Port:          "5432",
			User:          "velograph",
			Name:          "velograph",
			SSLMode:       "disable",
			MaxRetries:    30,
			RetryInterval: 2 * time.Second,
		},
		Auth: AuthConfig{TokenTTL: 24 * time.Hour},
		Log:  LogConfig{Level: "info"},
		Render: RenderConfig{
			WidthInches:  12,
			HeightInches: 10,
			DPI:          150,
			TileURL:      "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution:  `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
		PathsDir: "paths",
	}
}

// Load 读取配置: 默认值 -> YAML 文件 (filename 为空时跳过) -> 环境变量, 最后校验
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 按 struct tag 校验
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value %v)", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("配置无效: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnvOrDefault("VELOGRAPH_ADDR", c.Server.Addr)
	c.PathsDir = getEnvOrDefault("VELOGRAPH_PATHS_DIR", c.PathsDir)

	c.Database.Host = getEnvOrDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvOrDefault("DB_PORT", c.Database.Port)
	c.Database.User = getEnvOrDefault("DB_USER", c.Database.User)
	c.Database.Password = getEnvOrDefault("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnvOrDefault("DB_NAME", c.Database.Name)

	c.Auth.Username = getEnvOrDefault("VELOGRAPH_ADMIN_USER", c.Auth.Username)
	c.Auth.Password = getEnvOrDefault("VELOGRAPH_ADMIN_PASSWORD", c.Auth.Password)
	c.Auth.PasswordHash = getEnvOrDefault("VELOGRAPH_ADMIN_PASSWORD_HASH", c.Auth.PasswordHash)
	c.Auth.JWTSecret = getEnvOrDefault("VELOGRAPH_JWT_SECRET", c.Auth.JWTSecret)

	c.Log.Level = getEnvOrDefault("VELOGRAPH_LOG_LEVEL", c.Log.Level)
	c.Log.Dir = getEnvOrDefault("VELOGRAPH_LOG_DIR", c.Log.Dir)

	c.Render.TileURL = getEnvOrDefault("VELOGRAPH_TILE_URL", c.Render.TileURL)
	if v := os.Getenv("VELOGRAPH_DPI"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VELOGRAPH_DPI 不是整数: %q", v)
		}
		c.Render.DPI = dpi
	}
	return nil
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
