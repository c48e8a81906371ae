package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Gateway GatewayConfig `yaml:"gateway"`
	Store   StoreConfig   `yaml:"store"`
	Chat    ChatConfig    `yaml:"chat"`
	Wizard  WizardConfig  `yaml:"wizard"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port          int           `yaml:"port"`
	Name          string        `yaml:"name"`
	AllowOrigins  []string      `yaml:"allowOrigins"`
	CookieSecure  bool          `yaml:"cookieSecure"`
	VisitorIdle   time.Duration `yaml:"visitorIdle"`   // 访客状态空闲多久后回收
	HeartbeatTick time.Duration `yaml:"heartbeatTick"` // websocket 心跳检测周期
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GatewayConfig 后端 API 网关配置
type GatewayConfig struct {
	BaseURL string `yaml:"baseUrl"` // 例如 http://localhost:8000/api
}

// StoreConfig 客户端存储配置
type StoreConfig struct {
	Driver string        `yaml:"driver"` // redis, memory
	TTL    time.Duration `yaml:"ttl"`
}

// ChatConfig 聊天组件配置
type ChatConfig struct {
	FAQEnabled          bool `yaml:"faqEnabled"`
	EscalationThreshold int  `yaml:"escalationThreshold"`
}

// WizardConfig 可视化向导配置
type WizardConfig struct {
	PollInterval   time.Duration `yaml:"pollInterval"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	MaxUploadBytes int64         `yaml:"maxUploadBytes"`
	MaxEdge        int           `yaml:"maxEdge"`
	JPEGQuality    int           `yaml:"jpegQuality"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			Name:          "thaiturk-portal",
			VisitorIdle:   2 * time.Hour,
			HeartbeatTick: 30 * time.Second,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Gateway: GatewayConfig{
			BaseURL: "http://localhost:8000/api",
		},
		Store: StoreConfig{
			Driver: "redis",
			TTL:    30 * 24 * time.Hour,
		},
		Chat: ChatConfig{
			FAQEnabled:          true,
			EscalationThreshold: 2,
		},
		Wizard: WizardConfig{
			PollInterval:   3 * time.Second,
			MaxAttempts:    60,
			MaxUploadBytes: 10 * 1024 * 1024,
			MaxEdge:        1024,
			JPEGQuality:    85,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig 加载配置文件
// 先读取 YAML，再加载 .env（如存在），最后应用 PORTAL_* 环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnvInt("PORTAL_PORT", c.Server.Port)
	c.Gateway.BaseURL = getEnv("PORTAL_GATEWAY_URL", c.Gateway.BaseURL)
	c.Redis.Host = getEnv("PORTAL_REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("PORTAL_REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("PORTAL_REDIS_PASSWORD", c.Redis.Password)
	c.Store.Driver = getEnv("PORTAL_STORE_DRIVER", c.Store.Driver)
	c.Log.Level = getEnv("PORTAL_LOG_LEVEL", c.Log.Level)
	c.Chat.FAQEnabled = getEnvBool("PORTAL_FAQ_ENABLED", c.Chat.FAQEnabled)
	if origins := getEnv("PORTAL_ALLOW_ORIGINS", ""); origins != "" {
		c.Server.AllowOrigins = strings.Split(origins, ",")
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.baseUrl cannot be empty")
	}
	switch c.Store.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("store.driver must be redis or memory, got %q", c.Store.Driver)
	}
	if c.Wizard.PollInterval <= 0 {
		return fmt.Errorf("wizard.pollInterval must be > 0")
	}
	if c.Wizard.MaxAttempts <= 0 {
		return fmt.Errorf("wizard.maxAttempts must be > 0")
	}
	if c.Wizard.MaxUploadBytes <= 0 {
		return fmt.Errorf("wizard.maxUploadBytes must be > 0")
	}
	if c.Wizard.MaxEdge <= 0 {
		return fmt.Errorf("wizard.maxEdge must be > 0")
	}
	if c.Wizard.JPEGQuality < 1 || c.Wizard.JPEGQuality > 100 {
		return fmt.Errorf("wizard.jpegQuality must be in [1,100]")
	}
	if c.Chat.EscalationThreshold <= 0 {
		return fmt.Errorf("chat.escalationThreshold must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
