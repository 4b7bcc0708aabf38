// Package cli assembles configuration and engine wiring for the
// commands, keeping cmd/ thin.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is everything a command needs to build the engine. Values are
// layered: defaults, then agenticum.yaml, then environment, then flags.
type Config struct {
	Port     int    `yaml:"port" mapstructure:"port"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	// RedisAddr empty means sessions live in process memory.
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`

	// GeminiAPIKey empty means generation runs against the built-in
	// offline canned generator (demo mode).
	GeminiAPIKey string `yaml:"gemini_api_key" mapstructure:"gemini_api_key"`
	TextModel    string `yaml:"text_model" mapstructure:"text_model"`

	ResumeWorkers   int `yaml:"resume_workers" mapstructure:"resume_workers"`
	ResumeQueueSize int `yaml:"resume_queue_size" mapstructure:"resume_queue_size"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		LogLevel:        "info",
		LogFormat:       "text",
		ResumeWorkers:   2,
		ResumeQueueSize: 32,
	}
}

// LoadConfig layers the optional YAML file and the environment over the
// defaults. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			// Decode via a generic map so unknown keys fail loudly
			// instead of silently vanishing.
			var raw map[string]any
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:      &cfg,
				ErrorUnused: true,
			})
			if err != nil {
				return cfg, err
			}
			if err := decoder.Decode(raw); err != nil {
				return cfg, fmt.Errorf("invalid config in %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AGENTICUM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("AGENTICUM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AGENTICUM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("AGENTICUM_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("AGENTICUM_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("AGENTICUM_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("AGENTICUM_TEXT_MODEL"); v != "" {
		cfg.TextModel = v
	}
}
