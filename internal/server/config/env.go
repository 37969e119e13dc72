package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server reads. Empty values
// leave the corresponding setting untouched.
type EnvConfig struct {
	Port               string `env:"PORT"`
	GRPCAddr           string `env:"GRPC_ADDR"`
	DatabaseURL        string `env:"DATABASE_URL"`
	MongoURI           string `env:"MONGODB_URI"`
	JWTSecret          string `env:"JWT_SECRET"`
	TokenTTL           string `env:"TOKEN_TTL"`
	AdminToken         string `env:"ADMIN_TOKEN"`
	RedisURL           string `env:"REDIS_URL"`
	RateLimitWhitelist string `env:"RATE_LIMIT_WHITELIST"`
	CORSOrigins        string `env:"CORS_ORIGINS"`
	LogFormat          string `env:"LOG_FORMAT"`
	S3AccessKey        string `env:"S3_ACCESS_KEY"`
	S3SecretKey        string `env:"S3_SECRET_KEY"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Region           string `env:"S3_REGION"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
}

// envFiles are loaded into the environment before it is read. Variables
// already set win over the file.
var envFiles = []string{".env"}

func parseEnv(config *Config) error {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	e := &EnvConfig{}
	if err := configor.New(&configor.Config{Silent: true}).Load(e); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(e.Port, ":")
	}
	setEnv(&config.EndpointAddrGRPC, e.GRPCAddr)
	setEnv(&config.DatabaseDSN, e.MongoURI)
	setEnv(&config.DatabaseDSN, e.DatabaseURL)
	setEnv(&config.SecretKey, e.JWTSecret)
	if e.TokenTTL != "" {
		d, err := time.ParseDuration(e.TokenTTL)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}
	setEnv(&config.AdminToken, e.AdminToken)
	setEnv(&config.RedisURL, e.RedisURL)
	if e.RateLimitWhitelist != "" {
		config.RateLimitWhitelist = splitList(e.RateLimitWhitelist)
	}
	if e.CORSOrigins != "" {
		config.CORSAllowedOrigins = splitList(e.CORSOrigins)
	}
	setEnv(&config.LogFormat, e.LogFormat)
	setEnv(&config.S3AccessKey, e.S3AccessKey)
	setEnv(&config.S3SecretKey, e.S3SecretKey)
	setEnv(&config.S3Bucket, e.S3Bucket)
	setEnv(&config.S3Region, e.S3Region)
	setEnv(&config.S3BaseEndpoint, e.S3Endpoint)

	return nil
}

func setEnv(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
