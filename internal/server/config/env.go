package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseDotenv loads a .env file from the working directory into the process
// environment, if one exists. Existing variables are not overridden, so real
// environment always wins over the file.
func parseDotenv() {
	_ = godotenv.Load()
}

// parseEnv overlays Config fields from environment variables. Unset or
// malformed values leave the current field untouched.
func parseEnv(c *Config) {
	setString(&c.Environment, "APP_ENV")
	setInt(&c.Port, "PORT")

	setString(&c.DBHost, "DB_HOST")
	setInt(&c.DBPort, "DB_PORT")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASSWORD")
	setString(&c.DBName, "DB_NAME")
	setInt(&c.DBConnectionLimit, "DB_CONNECTION_LIMIT")

	setString(&c.AdminAPIKey, "ADMIN_API_KEY")
	setString(&c.UploadBasePath, "UPLOAD_BASE_PATH")

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok && v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}

	if v, ok := os.LookupEnv("RATE_LIMIT_WINDOW_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.RateLimitWindow = time.Duration(ms) * time.Millisecond
		}
	}
	setInt(&c.RateLimitMax, "RATE_LIMIT_MAX")

	setString(&c.APIVersion, "API_VERSION")
	setString(&c.DeployedAt, "DEPLOY_TIMESTAMP")
	setString(&c.GitCommit, "GIT_COMMIT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
