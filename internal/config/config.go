// Package config loads storyforge settings from defaults, an optional
// TOML file and STORYFORGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/storyforge/internal/llm"
	"github.com/abhisek/storyforge/internal/store"
	"github.com/abhisek/storyforge/internal/storygen"
)

// EnvPrefix prefixes every environment override, e.g. STORYFORGE_LOG_LEVEL.
const EnvPrefix = "STORYFORGE"

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings. An empty File means the default
// storyforge.log next to the database.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LLMConfig holds provider settings. An empty Provider picks the first
// provider with a key, then falls back to the standard vendor env vars.
type LLMConfig struct {
	Provider    string         `mapstructure:"provider"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	MaxAttempts int            `mapstructure:"max_attempts"`
	OpenAI      ProviderConfig `mapstructure:"openai"`
	Anthropic   ProviderConfig `mapstructure:"anthropic"`
	Gemini      ProviderConfig `mapstructure:"gemini"`
	OpenRouter  ProviderConfig `mapstructure:"openrouter"`
}

// ProviderConfig holds the settings of one LLM vendor.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GenerationConfig holds job worker and story shape settings.
type GenerationConfig struct {
	Workers      int           `mapstructure:"workers"`
	QueueSize    int           `mapstructure:"queue_size"`
	JobTimeout   time.Duration `mapstructure:"job_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	MaxDepth     int           `mapstructure:"max_depth"`
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	genDefaults := storygen.DefaultConfig()

	v.SetDefault("database.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.max_attempts", llmDefaults.Retry.MaxAttempts)
	for name, model := range map[string]string{
		"openai":     llmDefaults.OpenAI.Model,
		"anthropic":  llmDefaults.Anthropic.Model,
		"gemini":     llmDefaults.Gemini.Model,
		"openrouter": llmDefaults.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}

	v.SetDefault("generation.workers", 2)
	v.SetDefault("generation.queue_size", 16)
	v.SetDefault("generation.job_timeout", 3*time.Minute)
	v.SetDefault("generation.poll_interval", time.Second)
	v.SetDefault("generation.max_attempts", genDefaults.MaxAttempts)
	v.SetDefault("generation.max_depth", genDefaults.MaxDepth)
}

// Load reads configuration. When path is empty the default config file is
// used if it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/storyforge/config.toml.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "storyforge"), nil
}

// DatabasePath returns the configured database path, or the XDG default,
// creating its directory.
func (c Config) DatabasePath() (string, error) {
	if c.Database.Path == "" {
		return store.DefaultDBPath()
	}
	return c.Database.Path, store.EnsureDir(c.Database.Path)
}

// LogPath returns the configured log file, or storyforge.log beside dbPath.
func (c Config) LogPath(dbPath string) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(filepath.Dir(dbPath), "storyforge.log")
}

// LLMConfig converts the loaded settings into an llm.Config.
func (c Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}

	overlay(&cfg.OpenAI.APIKey, &cfg.OpenAI.Model, &cfg.OpenAI.BaseURL, c.LLM.OpenAI)
	overlay(&cfg.Anthropic.APIKey, &cfg.Anthropic.Model, &cfg.Anthropic.BaseURL, c.LLM.Anthropic)
	overlay(&cfg.Gemini.APIKey, &cfg.Gemini.Model, nil, c.LLM.Gemini)
	overlay(&cfg.OpenRouter.APIKey, &cfg.OpenRouter.Model, &cfg.OpenRouter.BaseURL, c.LLM.OpenRouter)

	if cfg.Provider != "" {
		return cfg
	}
	switch {
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = llm.ProviderOpenAI
	case cfg.Anthropic.APIKey != "":
		cfg.Provider = llm.ProviderAnthropic
	case cfg.Gemini.APIKey != "":
		cfg.Provider = llm.ProviderGemini
	case cfg.OpenRouter.APIKey != "":
		cfg.Provider = llm.ProviderOpenRouter
	default:
		if found, ok := llm.DiscoverConfig(cfg); ok {
			cfg = found
		}
	}
	return cfg
}

func overlay(key, model, baseURL *string, p ProviderConfig) {
	if p.APIKey != "" {
		*key = p.APIKey
	}
	if p.Model != "" {
		*model = p.Model
	}
	if baseURL != nil && p.BaseURL != "" {
		*baseURL = p.BaseURL
	}
}

// StorygenConfig converts the generation settings into a storygen.Config.
func (c Config) StorygenConfig() storygen.Config {
	cfg := storygen.DefaultConfig()
	if c.Generation.MaxAttempts > 0 {
		cfg.MaxAttempts = c.Generation.MaxAttempts
	}
	if c.Generation.MaxDepth > 0 {
		cfg.MaxDepth = c.Generation.MaxDepth
		if cfg.MinDepth > cfg.MaxDepth {
			cfg.MinDepth = cfg.MaxDepth
		}
		cfg.Validators = storygen.DefaultValidators(cfg.MaxDepth)
	}
	return cfg
}
