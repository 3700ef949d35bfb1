package store

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	DatabaseName string `envconfig:"HEALTHLOG_DATABASE_NAME" default:"healthlog"`
	Hosts        string `envconfig:"HEALTHLOG_STORE_ADDRESSES" default:"localhost"`
	OptParams    string `envconfig:"HEALTHLOG_STORE_OPT_PARAMS"`
	Password     string `envconfig:"HEALTHLOG_STORE_PASSWORD"`
	Scheme       string `envconfig:"HEALTHLOG_STORE_SCHEME" default:"mongodb"`
	Ssl          bool   `envconfig:"HEALTHLOG_STORE_TLS"`
	User         string `envconfig:"HEALTHLOG_STORE_USERNAME"`
	Transactions bool   `envconfig:"HEALTHLOG_STORE_TRANSACTIONS" default:"true"`
}

func GetConnectionString(c *Config) (string, error) {
	return c.GetConnectionString()
}

func (c *Config) GetConnectionString() (string, error) {
	var cs strings.Builder
	if c.Scheme != "" {
		cs.WriteString(c.Scheme + "://")
	} else {
		cs.WriteString("mongodb://")
	}

	if c.User != "" {
		cs.WriteString(c.User)
		if c.Password != "" {
			cs.WriteString(":" + c.Password)
		}
		cs.WriteString("@")
	}

	if c.Hosts != "" {
		cs.WriteString(c.Hosts)
	} else {
		cs.WriteString("localhost")
	}
	cs.WriteString("/")

	if c.Ssl {
		cs.WriteString("?ssl=true")
	} else {
		cs.WriteString("?ssl=false")
	}

	if c.OptParams != "" {
		cs.WriteString("&" + c.OptParams)
	}
	return cs.String(), nil
}
