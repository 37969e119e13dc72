package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/secretsanta/internal/flagx"
	"github.com/dmitrijs2005/secretsanta/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts
// accept strings like "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	AdminToken         string          `json:"admin_token"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file given by -c or -config. Empty keys
// leave the current values in place.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AdminToken != "" {
		cfg.AdminToken = jc.AdminToken
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
