package config

import (
	"flag"
	"strings"

	"github.com/dmitrijs2005/secretsanta/internal/flagx"
)

// parseFlags overlays command-line flags onto config. Flags it does not
// define, such as -c, are ignored.
//
// Supported flags:
//
//	-a string          REST bind address (e.g. ":5000")
//	-grpc string       admin RPC bind address (e.g. ":50051")
//	-d string          store DSN (postgres://, mongodb://, memory://)
//	-s string          JWT HMAC secret key
//	-t duration        participant token lifetime (e.g. "168h")
//	-admin-token string
//	-redis string      Redis URL for the login rate limiter
//	-cors string       comma-separated allowed origins
//	-log string        log format: json or console
//	-u / -p string     S3 access key / secret key
//	-b / -g / -e       S3 bucket / region / base endpoint
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "REST address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "admin RPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "token validity duration")
	fs.StringVar(&config.AdminToken, "admin-token", config.AdminToken, "admin token")
	fs.StringVar(&config.RedisURL, "redis", config.RedisURL, "Redis URL")
	cors := fs.String("cors", strings.Join(config.CORSAllowedOrigins, ","), "allowed CORS origins")
	fs.StringVar(&config.LogFormat, "log", config.LogFormat, "log format (json|console)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return err
	}

	config.CORSAllowedOrigins = splitList(*cors)
	return nil
}
