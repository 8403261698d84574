package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 5000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBName     = "gistify"
	defaultDBCharset  = "utf8mb4"
	defaultSummarizer = "http://127.0.0.1:5001"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	AllowedOrigins []string         `yaml:"allowed_origins"`
	JWTSecret      string           `yaml:"jwt_secret"`
	TokenTTL       time.Duration    `yaml:"token_ttl"`
	Database       DatabaseConfig   `yaml:"database"`
	RedisURL       string           `yaml:"redis_url"`
	S3             S3Config         `yaml:"s3"`
	Summarizer     SummarizerConfig `yaml:"summarizer"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// S3Config configures the object store holding uploaded documents and text
// blobs. Endpoint may point at any S3-compatible provider.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyle       bool   `yaml:"path_style"`
}

// SummarizerConfig points at the external summarization/RAG service.
type SummarizerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads the YAML config file, applies defaults, and honors environment
// overrides for secrets so deployments never have to write them to disk.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// Running purely on defaults+env is fine in development.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("GISTIFY_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("GISTIFY_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("GISTIFY_S3_ACCESS_KEY_ID"); v != "" {
		cfg.S3.AccessKeyID = v
	}
	if v := os.Getenv("GISTIFY_S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := os.Getenv("GISTIFY_SUMMARIZER_URL"); v != "" {
		cfg.Summarizer.BaseURL = v
	}
	if v := os.Getenv("GISTIFY_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = defaultDBName
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = defaultDBCharset
	}
	if cfg.Summarizer.BaseURL == "" {
		cfg.Summarizer.BaseURL = defaultSummarizer
	}
	if cfg.Summarizer.Timeout <= 0 {
		cfg.Summarizer.Timeout = 2 * time.Minute
	}
}

// DSN assembles the MySQL connection string when one is not given directly.
func (c *AppConfig) DSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset)
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}
