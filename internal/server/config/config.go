// Package config handles configuration for the backend server,
// including defaults, an optional .env file, environment variables,
// and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Environment names recognized in Config.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds runtime settings for the manga backend server.
//
// Fields:
//   - Port: HTTP listen port.
//   - Environment: "development", "production" or "test".
//   - DBHost/DBPort/DBUser/DBPassword/DBName: MariaDB connection settings.
//   - DBConnectionLimit: max open connections in the pool.
//   - AdminAPIKey: static key accepted by the admin guard for
//     service-to-service calls. Empty disables the fallback.
//   - UploadBasePath: root directory for uploaded images.
//   - AllowedOrigins: CORS origins; "*" allows any.
//   - RateLimitWindow / RateLimitMax: fixed-window rate limit per client IP.
//   - SessionValidity: lifetime of issued session tokens.
//   - APIVersion / DeployedAt / GitCommit: deployment metadata reported by
//     the status endpoint.
type Config struct {
	Port        int
	Environment string

	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	DBConnectionLimit int

	AdminAPIKey    string
	UploadBasePath string
	AllowedOrigins []string

	RateLimitWindow time.Duration
	RateLimitMax    int

	SessionValidity time.Duration

	APIVersion string
	DeployedAt string
	GitCommit  string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Port = 3001
	c.Environment = EnvDevelopment
	c.DBHost = "localhost"
	c.DBPort = 3306
	c.DBUser = "manga"
	c.DBPassword = "manga"
	c.DBName = "manga"
	c.DBConnectionLimit = 10
	c.AdminAPIKey = ""
	c.UploadBasePath = "./images"
	c.AllowedOrigins = []string{"*"}
	c.RateLimitWindow = 15 * time.Minute
	c.RateLimitMax = 1000
	c.SessionValidity = 7 * 24 * time.Hour
	c.APIVersion = "1.0.0"
	c.DeployedAt = ""
	c.GitCommit = ""
}

// DSN builds a go-sql-driver/mysql DSN from the DB fields.
// parseTime is required so DATETIME columns scan into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional .env file, process environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseDotenv()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
