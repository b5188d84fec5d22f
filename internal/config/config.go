package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SnapshotPolicySnapshot = "snapshot"
	SnapshotPolicyLive     = "live"
)

var defaultAllowedOrigins = []string{"http://localhost:3000", "https://dg-studios.vercel.app"}

type Config struct {
	Port string `yaml:"port"`

	// Empty DatabaseURL selects the in-memory store.
	DatabaseURL string        `yaml:"database_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTTTL      time.Duration `yaml:"jwt_ttl"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	// Peers allowed to set X-Forwarded-For. Empty trusts no proxy.
	TrustedProxies []string `yaml:"trusted_proxies"`

	// Database SSL configuration
	DBSSLMode     string `yaml:"db_ssl_mode"`
	DBSSLCert     string `yaml:"db_ssl_cert"`
	DBSSLKey      string `yaml:"db_ssl_key"`
	DBSSLRootCert string `yaml:"db_ssl_root_cert"`

	RedisURL string `yaml:"redis_url"`
	// Login attempts allowed per client IP per minute.
	LoginRateLimit int `yaml:"login_rate_limit"`

	HeroSnapshotPolicy string `yaml:"hero_snapshot_policy"`

	// Open registration only ever creates the first admin.
	AdminRegistrationEnabled bool `yaml:"admin_registration_enabled"`

	Instagram InstagramConfig `yaml:"instagram"`

	Development bool `yaml:"development"`
}

type InstagramConfig struct {
	AccessToken string        `yaml:"access_token"`
	UserID      string        `yaml:"user_id"`
	Limit       int           `yaml:"limit"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

func defaults() *Config {
	return &Config{
		Port:                     "4000",
		JWTSecret:                "your_jwt_secret",
		JWTTTL:                   2 * time.Hour,
		AllowedOrigins:           defaultAllowedOrigins,
		DBSSLMode:                "disable",
		LoginRateLimit:           10,
		HeroSnapshotPolicy:       SnapshotPolicySnapshot,
		AdminRegistrationEnabled: false,
		Instagram: InstagramConfig{
			Limit:    6,
			CacheTTL: 15 * time.Minute,
		},
		Development: true,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any), and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTTTL = getDurationEnv("JWT_TTL", cfg.JWTTTL)
	cfg.AllowedOrigins = getSliceEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.TrustedProxies = getSliceEnv("TRUSTED_PROXIES", cfg.TrustedProxies)

	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.DBSSLCert = getEnv("DB_SSL_CERT", cfg.DBSSLCert)
	cfg.DBSSLKey = getEnv("DB_SSL_KEY", cfg.DBSSLKey)
	cfg.DBSSLRootCert = getEnv("DB_SSL_ROOT_CERT", cfg.DBSSLRootCert)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.LoginRateLimit = getIntEnv("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)

	cfg.HeroSnapshotPolicy = getEnv("HERO_SNAPSHOT_POLICY", cfg.HeroSnapshotPolicy)
	cfg.AdminRegistrationEnabled = getBoolEnv("ADMIN_REGISTRATION_ENABLED", cfg.AdminRegistrationEnabled)

	cfg.Instagram.AccessToken = getEnv("INSTAGRAM_ACCESS_TOKEN", cfg.Instagram.AccessToken)
	cfg.Instagram.UserID = getEnv("INSTAGRAM_USER_ID", cfg.Instagram.UserID)
	cfg.Instagram.Limit = getIntEnv("INSTAGRAM_LIMIT", cfg.Instagram.Limit)
	cfg.Instagram.CacheTTL = getDurationEnv("INSTAGRAM_CACHE_TTL", cfg.Instagram.CacheTTL)

	cfg.Development = getBoolEnv("DEVELOPMENT", cfg.Development)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Update database URL with SSL configuration if provided
	if cfg.DatabaseURL != "" && cfg.DBSSLMode != "disable" {
		cfg.DatabaseURL = updateDatabaseURLWithSSL(cfg.DatabaseURL, cfg)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.HeroSnapshotPolicy {
	case SnapshotPolicySnapshot, SnapshotPolicyLive:
	default:
		return fmt.Errorf("invalid hero snapshot policy %q: want %q or %q",
			c.HeroSnapshotPolicy, SnapshotPolicySnapshot, SnapshotPolicyLive)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("login rate limit must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// updateDatabaseURLWithSSL replaces any ssl* query parameters of the database
// URL with the configured ones.
func updateDatabaseURLWithSSL(databaseURL string, cfg *Config) string {
	if strings.Contains(databaseURL, "?") {
		parts := strings.SplitN(databaseURL, "?", 2)
		var kept []string
		for _, param := range strings.Split(parts[1], "&") {
			if !strings.HasPrefix(param, "sslmode=") &&
				!strings.HasPrefix(param, "sslcert=") &&
				!strings.HasPrefix(param, "sslkey=") &&
				!strings.HasPrefix(param, "sslrootcert=") {
				kept = append(kept, param)
			}
		}
		databaseURL = parts[0]
		if len(kept) > 0 {
			databaseURL += "?" + strings.Join(kept, "&")
		}
	}

	sslParams := []string{"sslmode=" + cfg.DBSSLMode}
	if cfg.DBSSLCert != "" {
		sslParams = append(sslParams, "sslcert="+cfg.DBSSLCert)
	}
	if cfg.DBSSLKey != "" {
		sslParams = append(sslParams, "sslkey="+cfg.DBSSLKey)
	}
	if cfg.DBSSLRootCert != "" {
		sslParams = append(sslParams, "sslrootcert="+cfg.DBSSLRootCert)
	}

	if strings.Contains(databaseURL, "?") {
		return databaseURL + "&" + strings.Join(sslParams, "&")
	}
	return databaseURL + "?" + strings.Join(sslParams, "&")
}
