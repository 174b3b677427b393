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

const (
	DefaultBaseURL      = "http://localhost:8000/api"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
)

// Config represents ~/.kbc/config.yaml
type Config struct {
	API  APIConfig  `yaml:"api"`
	Poll PollConfig `yaml:"poll"`
	Log  LogConfig  `yaml:"log"`
	DB   DBConfig   `yaml:"db"`
}

// APIConfig holds remote API settings
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollConfig holds status polling settings
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Mode  string `yaml:"mode"`  // dev | prod
	Level string `yaml:"level"` // debug | info | warn | error
}

// DBConfig holds local state store settings
type DBConfig struct {
	Type string `yaml:"type"` // sqlite | duckdb
	Path string `yaml:"path,omitempty"`
}

// Default returns a default config
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Poll: PollConfig{
			Interval: DefaultPollInterval,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
		DB: DBConfig{
			Type: "sqlite",
		},
	}
}

// Load reads the config file, then applies .env and environment overrides.
// A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	// .env는 선택 사항
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides.
// Use it when the result is written back with Save.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KBC_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("KBC_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KBC_API_TIMEOUT 파싱 실패: %w", err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("KBC_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KBC_POLL_INTERVAL 파싱 실패: %w", err)
		}
		c.Poll.Interval = d
	}
	if v := os.Getenv("KBC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KBC_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("KBC_DB_TYPE"); v != "" {
		c.DB.Type = strings.ToLower(v)
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = DefaultPollInterval
	}
	if c.DB.Type == "" {
		c.DB.Type = "sqlite"
	}
}

// DBPath returns the configured state database path
func (c *Config) DBPath() string {
	if c.DB.Path != "" {
		return c.DB.Path
	}
	return GlobalDBPath()
}

// Save writes config to path
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 직렬화 실패: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("설정 파일 저장 실패: %w", err)
	}

	return nil
}
