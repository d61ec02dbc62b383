package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	apperrors "jarvis/internal/platform/errors"
)

const namespace = "JARVIS"

const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"

	defaultAnthropicModel = "claude-sonnet-4-5"
	defaultOllamaModel    = "llama3.2"
	defaultOllamaHost     = "http://127.0.0.1:11434"
)

// Env mirrors the JARVIS_* environment variables.
type Env struct {
	DataDir         string        `envconfig:"DATA_DIR"`
	DBPath          string        `envconfig:"DB_PATH"`
	ExportDir       string        `envconfig:"EXPORT_DIR"`
	CredentialsFile string        `envconfig:"CREDENTIALS_FILE"`
	Provider        string        `envconfig:"PROVIDER"`
	Model           string        `envconfig:"MODEL"`
	APIKey          string        `envconfig:"API_KEY"`
	BaseURL         string        `envconfig:"BASE_URL"`
	OllamaHost      string        `envconfig:"OLLAMA_HOST"`
	MaxTokens       int           `envconfig:"MAX_TOKENS" default:"1024"`
	Temperature     float64       `envconfig:"TEMPERATURE" default:"0.7"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	CalendarID      string        `envconfig:"GOOGLE_CALENDAR" default:"primary"`
}

// credentials is the on-disk secrets file. It is never written by jarvis.
type credentials struct {
	APIKey     string `yaml:"api_key"`
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	OllamaHost string `yaml:"ollama_host"`
}

type Config struct {
	DataDir         string
	DBPath          string
	ExportDir       string
	GoogleDir       string
	CredentialsFile string
	Provider        string
	Model           string
	APIKey          string
	BaseURL         string
	OllamaHost      string
	MaxTokens       int
	Temperature     float64
	RequestTimeout  time.Duration
	LogLevel        string
	CalendarID      string
}

// Load reads the environment and the optional credentials file. dataDir, when
// non-empty, overrides JARVIS_DATA_DIR.
func Load(dataDir string) (Config, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return Config{}, fmt.Errorf("%w: load env: %v", apperrors.ErrConfig, err)
	}
	if dataDir != "" {
		env.DataDir = dataDir
	}
	return fromEnv(env)
}

func fromEnv(env Env) (Config, error) {
	dataDir := env.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("%w: resolve home dir: %v", apperrors.ErrConfig, err)
		}
		dataDir = filepath.Join(home, ".local", "share", "jarvis")
	}
	cfg := Config{
		DataDir:         dataDir,
		DBPath:          firstNonEmpty(env.DBPath, filepath.Join(dataDir, "jarvis.db")),
		ExportDir:       firstNonEmpty(env.ExportDir, filepath.Join(dataDir, "exports")),
		GoogleDir:       filepath.Join(dataDir, "google"),
		CredentialsFile: firstNonEmpty(env.CredentialsFile, filepath.Join(dataDir, "credentials.yaml")),
		MaxTokens:       env.MaxTokens,
		Temperature:     env.Temperature,
		RequestTimeout:  env.RequestTimeout,
		LogLevel:        env.LogLevel,
		CalendarID:      env.CalendarID,
	}

	file, err := readCredentials(cfg.CredentialsFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Provider = strings.ToLower(firstNonEmpty(env.Provider, file.Provider, ProviderAnthropic))
	cfg.APIKey = firstNonEmpty(env.APIKey, file.APIKey)
	cfg.BaseURL = firstNonEmpty(env.BaseURL, file.BaseURL)
	cfg.OllamaHost = firstNonEmpty(env.OllamaHost, file.OllamaHost, defaultOllamaHost)

	switch cfg.Provider {
	case ProviderAnthropic:
		cfg.Model = firstNonEmpty(env.Model, file.Model, defaultAnthropicModel)
		if cfg.APIKey == "" {
			return Config{}, fmt.Errorf("%w: api key is required (set %s_API_KEY or api_key in %s)", apperrors.ErrConfig, namespace, cfg.CredentialsFile)
		}
	case ProviderOllama:
		cfg.Model = firstNonEmpty(env.Model, file.Model, defaultOllamaModel)
	default:
		return Config{}, fmt.Errorf("%w: unsupported provider %q", apperrors.ErrConfig, cfg.Provider)
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("%w: max tokens must be positive", apperrors.ErrConfig)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: request timeout must be positive", apperrors.ErrConfig)
	}
	return cfg, nil
}

func readCredentials(path string) (credentials, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return credentials{}, nil
	}
	if err != nil {
		return credentials{}, fmt.Errorf("%w: read credentials: %v", apperrors.ErrConfig, err)
	}
	var c credentials
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return credentials{}, fmt.Errorf("%w: parse credentials %s: %v", apperrors.ErrConfig, path, err)
	}
	return c, nil
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
