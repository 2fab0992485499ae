package settings

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    `yaml:"http"`
	GRPC    `yaml:"grpc"`
	Metrics `yaml:"metrics"`
	Pricing `yaml:"pricing"`
	Rates   `yaml:"rates"`
	Log     `yaml:"log"`
	App     `yaml:"app"`
}

type HTTP struct {
	Addr           string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"10s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env-default:"15s"`
}

type GRPC struct {
	Addr string `yaml:"addr" env:"GRPC_ADDR" env-default:":9090"`
}

type Metrics struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR" env-default:":9100"`
}

type Pricing struct {
	File  string `yaml:"file" env:"PRICING_FILE"`
	Watch bool   `yaml:"watch" env:"PRICING_WATCH" env-default:"false"`
}

type Rates struct {
	URL             string        `yaml:"url" env:"RATES_URL"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"1h"`
	CacheTTL        time.Duration `yaml:"cache_ttl" env-default:"6h"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" env-default:"10s"`
	Retry           `yaml:"retry"`
	Redis           `yaml:"redis"`
}

type Retry struct {
	Attempts uint          `yaml:"attempts" env-default:"5"`
	Delay    time.Duration `yaml:"delay" env-default:"200ms"`
	MaxDelay time.Duration `yaml:"max_delay" env-default:"2s"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
	Key      string `yaml:"key" env-default:"tokenpricing:rates"`
}

type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"28"`
	Compress   bool   `yaml:"compress" env-default:"true"`
}

type App struct {
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout" env-default:"15s"`
}

var errUnknownEnv = errors.New("env must be one of local, dev, prod")

// Load reads path (YAML) and applies environment overrides.
func Load(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv builds the config from environment variables only.
func LoadEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad reads the file named by CONFIG_PATH, or the environment when it
// is unset, and exits on error.
func MustLoad() Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		cfg, err := LoadEnv()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		return cfg
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatal("CONFIG_PATH does not exist")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("%w, got %q", errUnknownEnv, c.Env)
	}
	if c.Rates.URL != "" {
		if c.Rates.RefreshInterval <= 0 {
			return errors.New("rates.refresh_interval must be > 0 when rates.url is set")
		}
		if c.Rates.FetchTimeout <= 0 {
			return errors.New("rates.fetch_timeout must be > 0 when rates.url is set")
		}
	}
	return nil
}
