// Package config loads runtime configuration for santactl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment: SANTA_SERVER and ADMIN_TOKEN.
//  4. Command-line flags, bound by the CLI on top of the loaded values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "admin_token": "change-me",
//	  "request_timeout": "10s"
//	}
package config
