package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type ConfigParam struct {
	ServerPort      string `toml:"server_port"`
	HandleCORS      bool   `toml:"handle_cors"`
	StoreBackend    string `toml:"store_backend"` // "postgresql" or "memory"
	DatabaseDSN     string `toml:"database_dsn"`
	RetryAttempts   uint   `toml:"retry_attempts"`
	RetryBaseDelay  string `toml:"retry_base_delay"`
	DefaultStrips   int    `toml:"default_strips"`
	JoinCodeLength  int    `toml:"join_code_length"`
	TelemetryEnable bool   `toml:"telemetry_enable"`
}

var cfg *ConfigParam

func Config() *ConfigParam {
	return cfg
}

func LoadConfig(filename string) error {
	if filename == "" {
		cfg = defaults()
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	cp := *defaults()
	if _, err := toml.Decode(string(content), &cp); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}
	cfg = &cp
	return nil
}

func defaults() *ConfigParam {
	return &ConfigParam{
		ServerPort:      "8290",
		HandleCORS:      true,
		StoreBackend:    "memory",
		RetryAttempts:   3,
		RetryBaseDelay:  "1s",
		DefaultStrips:   100,
		JoinCodeLength:  8,
		TelemetryEnable: true,
	}
}

// RetryDelay parses the configured base delay, falling back to one second
// on a malformed value.
func (c *ConfigParam) RetryDelay() time.Duration {
	d, err := time.ParseDuration(c.RetryBaseDelay)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

func init() {
	err := LoadConfig("")
	if err != nil {
		panic(err)
	}
}
