package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWeatherAPIURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultAdviceModel   = "gpt-4o-mini"
)

// Config holds advisor configuration loaded from .env, YAML and the environment.
// It is built once at startup and handed to the clients; nothing reads the
// environment after Load returns.
type Config struct {
	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration

	AdviceAPIKey      string
	AdviceModel       string
	AdviceBaseURL     string // empty means the provider default
	AdviceTimeout     time.Duration
	AdviceMaxTokens   int
	AdviceTemperature float32

	RateLimitRPS   float64
	RateLimitBurst int

	MetricsTextfile string
}

type fileConfig struct {
	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	AdviceAPI struct {
		Model       string   `yaml:"model"`
		BaseURL     string   `yaml:"base_url"`
		Timeout     string   `yaml:"timeout"`
		MaxTokens   int      `yaml:"max_tokens"`
		Temperature *float32 `yaml:"temperature"`
	} `yaml:"advice_api"`

	Reliability struct {
		RateLimitRPS   *float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int      `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

type secretsFile struct {
	OpenWeatherAPIKey string `yaml:"openweather_api_key"`
	OpenAIAPIKey      string `yaml:"openai_api_key"`
}

// Load reads .env (if present), config/{ENV_NAME}.yaml (default dev, optional) and
// config/secrets.yaml (optional) relative to the working directory, then applies
// environment overrides. Missing credentials are not an error here; call Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	return LoadFrom(filepath.Join(cwd, "config"))
}

// LoadFrom is Load without the .env step, reading YAML files from dir.
func LoadFrom(dir string) (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	var fc fileConfig
	if err := readYAML(filepath.Join(dir, env+".yaml"), &fc); err != nil {
		return nil, err
	}
	var sec secretsFile
	if err := readYAML(filepath.Join(dir, "secrets.yaml"), &sec); err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.WeatherAPIKey = firstNonEmpty(os.Getenv("OPENWEATHER_API_KEY"), sec.OpenWeatherAPIKey)
	cfg.WeatherAPIURL = firstNonEmpty(os.Getenv("OPENWEATHER_API_URL"), fc.WeatherAPI.URL, DefaultWeatherAPIURL)
	cfg.WeatherAPITimeout = parseDurationOrZero(fc.WeatherAPI.Timeout, 10*time.Second)

	cfg.AdviceAPIKey = firstNonEmpty(os.Getenv("OPENAI_API_KEY"), sec.OpenAIAPIKey)
	cfg.AdviceModel = firstNonEmpty(os.Getenv("OPENAI_MODEL"), fc.AdviceAPI.Model, DefaultAdviceModel)
	cfg.AdviceBaseURL = firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), fc.AdviceAPI.BaseURL)
	cfg.AdviceTimeout = parseDuration(fc.AdviceAPI.Timeout, 60*time.Second)
	cfg.AdviceMaxTokens = fc.AdviceAPI.MaxTokens
	if cfg.AdviceMaxTokens == 0 {
		cfg.AdviceMaxTokens = 800
	}
	cfg.AdviceTemperature = 0.7
	if fc.AdviceAPI.Temperature != nil {
		cfg.AdviceTemperature = *fc.AdviceAPI.Temperature
	}

	cfg.RateLimitRPS = 1
	if fc.Reliability.RateLimitRPS != nil {
		cfg.RateLimitRPS = *fc.Reliability.RateLimitRPS
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 4
	}

	cfg.MetricsTextfile = strings.TrimSpace(firstNonEmpty(os.Getenv("METRICS_TEXTFILE"), fc.Metrics.Textfile))

	return cfg, nil
}

// Validate reports the first problem that makes the configuration unusable.
// Credentials are checked first so the user sees the actionable message.
func (c *Config) Validate() error {
	if c.WeatherAPIKey == "" {
		return errors.New("OPENWEATHER_API_KEY is not set. Please add it to your .env file.")
	}
	if c.AdviceAPIKey == "" {
		return errors.New("OPENAI_API_KEY is not set. Please add it to your .env file.")
	}
	if c.WeatherAPITimeout <= 0 {
		return fmt.Errorf("weather_api.timeout must be positive")
	}
	if c.AdviceTimeout <= 0 {
		return fmt.Errorf("advice_api.timeout must be positive")
	}
	if c.AdviceMaxTokens <= 0 {
		return fmt.Errorf("advice_api.max_tokens must be positive, got %d", c.AdviceMaxTokens)
	}
	if c.AdviceTemperature < 0 || c.AdviceTemperature > 2 {
		return fmt.Errorf("advice_api.temperature must be within [0, 2], got %v", c.AdviceTemperature)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("reliability.rate_limit_rps must not be negative")
	}
	return nil
}

// readYAML unmarshals path into out. A missing file leaves out untouched.
func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file %s: %w", filepath.Base(path), err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Zero or negative durations are returned as-is so Validate can reject them.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
