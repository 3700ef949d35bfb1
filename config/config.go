package config

import (
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpAddress   string        `envconfig:"HEALTHLOG_HTTP_ADDRESS" default:":8080"`
	ServerTimeout time.Duration `envconfig:"HEALTHLOG_SERVER_TIMEOUT" default:"20s"`

	// Location is used to compute calendar day keys for adherence records
	Location string `envconfig:"HEALTHLOG_LOCATION" default:"UTC"`
}

func New() *Config {
	return &Config{}
}

func NewConfig() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func (c *Config) GetLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Location)
}
