// Package config builds the runtime configuration once at process start.
//
// Precedence (lowest to highest): built-in defaults, YAML file, environment.
// API keys are only ever read from the environment (optionally seeded from .env).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

var (
	ErrMissingAPIKey   = errors.New("API key is not set")
	ErrUnknownProvider = errors.New("unknown provider")
)

type Config struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	// StrictTools turns an unknown requested tool name into an error instead of a skip.
	StrictTools bool          `yaml:"strict_tools"`
	Weather     WeatherConfig `yaml:"weather"`
}

type WeatherConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "claude-3-7-sonnet-latest"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel(ProviderGemini),
		Temperature: 0.7,
		MaxTokens:   1024,
		Weather: WeatherConfig{
			BaseURL: "https://api.open-meteo.com",
			Timeout: 30 * time.Second,
		},
	}
}

// APIKeyEnv names the environment variable holding the key for provider.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// LoadDotEnv seeds the process environment from a dotenv file. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides. When no model is configured the
// provider's default model is used. It does not validate.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Model = ""
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	cfg.APIKey = os.Getenv(APIKeyEnv(cfg.Provider))
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("AGT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AGT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AGT_WEATHER_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("AGT_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AGT_TEMPERATURE %q: %w", v, err)
		}
		cfg.Temperature = f
	}
	if v := os.Getenv("AGT_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AGT_MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("AGT_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AGT_HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.Weather.Timeout = d
	}
	if v := os.Getenv("AGT_STRICT_TOOLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AGT_STRICT_TOOLS %q: %w", v, err)
		}
		cfg.StrictTools = b
	}
	return nil
}

// Validate reports the first configuration problem that must stop startup.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("%w %q", ErrUnknownProvider, c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: %s is not set in your environment variables", ErrMissingAPIKey, APIKeyEnv(c.Provider))
	}
	if c.Model == "" {
		return errors.New("model is not set")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	// The OpenAI-compatible request drops a zero temperature, so the server
	// default would apply instead.
	if c.Provider == ProviderGemini && c.Temperature == 0 {
		return errors.New("temperature 0 is not supported for gemini; use a small positive value such as 0.01")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}
