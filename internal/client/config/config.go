package config

import "time"

// Config holds runtime settings for santactl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the admin gRPC endpoint.
//   - AdminToken: value sent in the admin_token metadata key.
//   - RequestTimeout: upper bound for a single command's RPC.
type Config struct {
	ServerEndpointAddr string
	AdminToken         string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// Load applies defaults, then overlays the JSON file named by -c/-config in
// args and finally the environment. Command-line flags are bound later by
// the CLI, using the returned values as their defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
