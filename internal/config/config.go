// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（JWT 密钥、MongoDB URI）和 APP_ENV
//  2. 加载 configs/common.yaml，再按 APP_ENV 叠加 configs/{env}.yaml
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

type AuthConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// RateLimitConfig 每客户端 IP 的滑动窗口限流参数
type RateLimitConfig struct {
	Window time.Duration `yaml:"window"`
	Max    int           `yaml:"max"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env         Environment
	Port        string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	RateLimit   RateLimitConfig
}

// IsProduction 是否生产运行模式（决定错误响应是否携带 stack）
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// String 打印配置摘要（不含密钥）
func (c *Config) String() string {
	return fmt.Sprintf("env=%s port=%s db=%s token_ttl=%s origins=%v",
		c.Env, c.Port, c.MongoDB, c.TokenTTL, c.CORSOrigins)
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 环境变量覆盖，构建最终配置
func Load() *Config {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	cfg := &Config{
		Env:         env,
		Port:        getEnv("PORT", yamlCfg.Server.Port),
		MongoURI:    getEnv("MONGODB_URI", yamlCfg.Database.URI),
		MongoDB:     getEnv("MONGODB_DB", yamlCfg.Database.Name),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    yamlCfg.Auth.TokenTTL,
		CORSOrigins: yamlCfg.CORS.Origins,
		RateLimit:   yamlCfg.RateLimit,
	}

	// 环境变量覆盖 TTL 和 CORS
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = splitOrigins(raw)
	}

	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server:   ServerConfig{Port: "3001"},
		Database: DatabaseConfig{URI: "mongodb://localhost:27017", Name: "pasteleria"},
		Auth:     AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		CORS: CORSConfig{Origins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
		}},
		RateLimit: RateLimitConfig{Window: 15 * time.Minute, Max: 100},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "prod", "production":
		return EnvProduction
	case "test":
		return EnvTest
	default:
		return EnvDevelopment
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
