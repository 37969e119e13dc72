package config

import (
	"fmt"

	"github.com/jinzhu/configor"
)

// EnvConfig lists the environment variables santactl reads. The admin token
// shares its name with the server's so one .env file can drive both.
type EnvConfig struct {
	Server     string `env:"SANTA_SERVER"`
	AdminToken string `env:"ADMIN_TOKEN"`
}

func parseEnv(cfg *Config) error {
	e := &EnvConfig{}
	if err := configor.New(&configor.Config{Silent: true}).Load(e); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if e.Server != "" {
		cfg.ServerEndpointAddr = e.Server
	}
	if e.AdminToken != "" {
		cfg.AdminToken = e.AdminToken
	}
	return nil
}
