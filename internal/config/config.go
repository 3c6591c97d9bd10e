package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"soil_health/internal/logger"

	"github.com/spf13/viper"
)

// Config is the process configuration of the soil screen.
type Config struct {
	Port    string        `mapstructure:"port"`
	Log     LogConfig     `mapstructure:"log"`
	Predict PredictConfig `mapstructure:"predict"`
	Form    FormConfig    `mapstructure:"form"`
	Slogans SloganConfig  `mapstructure:"slogans"`
	WS      WSConfig      `mapstructure:"ws"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // terminal screen only
}

// PredictConfig locates the external prediction service.
type PredictConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FormConfig struct {
	StrictNumeric bool `mapstructure:"strict_numeric"`
}

type SloganConfig struct {
	Period time.Duration `mapstructure:"period"`
	List   []string      `mapstructure:"list"`
}

type WSConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

const (
	envPrefix = "SOIL"
	// maxStreamInterval matches the longest push period /ws accepts.
	maxStreamInterval = 10 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.file", "soil-screen.log")
	v.SetDefault("predict.base_url", "http://localhost:8000")
	v.SetDefault("predict.timeout", 30*time.Second)
	v.SetDefault("form.strict_numeric", false)
	v.SetDefault("slogans.period", 5*time.Second)
	v.SetDefault("ws.interval", time.Second)
}

// Load reads the configuration. An empty path searches configs/config.yml and
// falls back to defaults when that file does not exist; an explicit path must
// exist. SOIL_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only sees keys viper already knows; the list has no default.
	// SOIL_SLOGANS_LIST is comma separated.
	if err := v.BindEnv("slogans.list"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is required")
	}
	switch c.Log.Level {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	u, err := url.Parse(c.Predict.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: predict.base_url must be an http(s) URL, got %q", c.Predict.BaseURL)
	}
	if c.Predict.Timeout <= 0 {
		return errors.New("config: predict.timeout must be positive")
	}
	if c.Slogans.Period <= 0 {
		return errors.New("config: slogans.period must be positive")
	}
	if c.WS.Interval <= 0 || c.WS.Interval > maxStreamInterval {
		return fmt.Errorf("config: ws.interval must be in (0, %s]", maxStreamInterval)
	}
	return nil
}
