package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Keys lists the dotted keys accepted by Get and Set
func Keys() []string {
	return []string{
		"api.base_url",
		"api.timeout",
		"poll.interval",
		"log.mode",
		"log.level",
		"db.type",
		"db.path",
	}
}

// Get returns the value of a dotted key as text
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api.base_url":
		return c.API.BaseURL, nil
	case "api.timeout":
		return c.API.Timeout.String(), nil
	case "poll.interval":
		return c.Poll.Interval.String(), nil
	case "log.mode":
		return c.Log.Mode, nil
	case "log.level":
		return c.Log.Level, nil
	case "db.type":
		return c.DB.Type, nil
	case "db.path":
		return c.DBPath(), nil
	}
	return "", fmt.Errorf("알 수 없는 설정 키: %s", key)
}

// Set validates and assigns a dotted key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "api.base_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("유효하지 않은 URL: %s", value)
		}
		c.API.BaseURL = strings.TrimRight(value, "/")
	case "api.timeout":
		d, err := parsePositiveDuration(value)
		if err != nil {
			return err
		}
		c.API.Timeout = d
	case "poll.interval":
		d, err := parsePositiveDuration(value)
		if err != nil {
			return err
		}
		c.Poll.Interval = d
	case "log.mode":
		if value != "dev" && value != "prod" {
			return fmt.Errorf("유효하지 않은 log.mode: %s (dev, prod)", value)
		}
		c.Log.Mode = value
	case "log.level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("유효하지 않은 log.level: %s (debug, info, warn, error)", value)
		}
		c.Log.Level = value
	case "db.type":
		v := strings.ToLower(value)
		if v != "sqlite" && v != "duckdb" {
			return fmt.Errorf("유효하지 않은 db.type: %s (sqlite, duckdb)", value)
		}
		c.DB.Type = v
	case "db.path":
		c.DB.Path = value
	default:
		return fmt.Errorf("알 수 없는 설정 키: %s", key)
	}
	return nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("유효하지 않은 시간 값: %s (예: 2s, 500ms)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("0보다 커야 합니다: %s", s)
	}
	return d, nil
}
