// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/akmovies.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultTMDBBaseURL               = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL          = "https://image.tmdb.org/t/p"
	defaultTMDBTimeout               = 10 * time.Second
	defaultAniListURL                = "https://graphql.anilist.co"
	defaultAniListTimeout            = 10 * time.Second
	defaultAniListPerPage            = 20
	defaultRequireVerifiedEmail      = true
	defaultPlayerColor               = "e94560"
	defaultCachePath                 = "./data/catalog-cache.db"
	defaultCacheTTL                  = 15 * time.Minute
	defaultCacheMemoryEntries        = 1024
	defaultEventsEnabled             = false
	defaultEventsNATSURL             = "nats://127.0.0.1:4222"
	defaultEventsMaxReconnects       = 5
	defaultEventsReconnectWait       = 2 * time.Second
	defaultRetryAttempts             = 3
	defaultBreakerThreshold          = 5
	defaultBreakerReset              = 30 * time.Second
	envPrefix                        = "AKMOVIES"
)

// DefaultPlayerServers is the built-in fallback server list
var DefaultPlayerServers = []string{
	"https://vidsrc.cc/embed",
	"https://vidsrc.to/embed",
	"https://vidsrc.me/embed",
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	TMDB     TMDBConfig
	AniList  AniListConfig
	Auth     AuthConfig
	Player   PlayerConfig
	Cache    CacheConfig
	Events   EventsConfig
	Upstream UpstreamConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
	// File enables an additional rotating log file when non-empty
	File string
}

// TMDBConfig holds The Movie Database client configuration
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// AniListConfig holds AniList GraphQL client configuration
type AniListConfig struct {
	URL     string
	Timeout time.Duration
	PerPage int
}

// AuthConfig holds bearer token verification and admin allow-list settings
type AuthConfig struct {
	JWTSecret            string
	AdminEmails          []string
	RequireVerifiedEmail bool
}

// PlayerConfig holds embed player settings
type PlayerConfig struct {
	// ServerURL is the base URL of the anime embed server
	ServerURL     string
	VidsrcDomains []string
	Color         string
	// DefaultServers are the embed base URLs served when the server list cannot be read
	DefaultServers []string
}

// CacheConfig holds catalog response cache settings
type CacheConfig struct {
	// Path is the bbolt file; empty means memory only
	Path string
	TTL  time.Duration
	// MemoryEntries bounds the in-memory layer
	MemoryEntries int
}

// EventsConfig holds NATS event publishing settings
type EventsConfig struct {
	Enabled       bool
	NATSURL       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// UpstreamConfig holds retry and circuit breaker settings for TMDB and AniList calls
type UpstreamConfig struct {
	RetryAttempts    uint
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/akmovies")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Comma separated env values arrive as a single element
	cfg.Auth.AdminEmails = splitList(cfg.Auth.AdminEmails)
	cfg.Player.VidsrcDomains = splitList(cfg.Player.VidsrcDomains)
	cfg.Player.DefaultServers = splitList(cfg.Player.DefaultServers)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
	v.SetDefault("logging.file", "")

	v.SetDefault("tmdb.apikey", "")
	v.SetDefault("tmdb.baseurl", defaultTMDBBaseURL)
	v.SetDefault("tmdb.imagebaseurl", defaultTMDBImageBaseURL)
	v.SetDefault("tmdb.timeout", defaultTMDBTimeout)

	v.SetDefault("anilist.url", defaultAniListURL)
	v.SetDefault("anilist.timeout", defaultAniListTimeout)
	v.SetDefault("anilist.perpage", defaultAniListPerPage)

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.adminemails", []string{})
	v.SetDefault("auth.requireverifiedemail", defaultRequireVerifiedEmail)

	v.SetDefault("player.serverurl", "")
	v.SetDefault("player.vidsrcdomains", []string{
		"https://vidsrc.cc",
		"https://vidsrc.to",
		"https://vidsrc.me",
		"https://vidsrc.xyz",
	})
	v.SetDefault("player.color", defaultPlayerColor)
	v.SetDefault("player.defaultservers", DefaultPlayerServers)

	v.SetDefault("cache.path", defaultCachePath)
	v.SetDefault("cache.ttl", defaultCacheTTL)
	v.SetDefault("cache.memoryentries", defaultCacheMemoryEntries)

	v.SetDefault("events.enabled", defaultEventsEnabled)
	v.SetDefault("events.natsurl", defaultEventsNATSURL)
	v.SetDefault("events.maxreconnects", defaultEventsMaxReconnects)
	v.SetDefault("events.reconnectwait", defaultEventsReconnectWait)

	v.SetDefault("upstream.retryattempts", defaultRetryAttempts)
	v.SetDefault("upstream.breakerthreshold", defaultBreakerThreshold)
	v.SetDefault("upstream.breakerreset", defaultBreakerReset)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if strings.TrimSpace(c.TMDB.BaseURL) == "" {
		return errors.New("tmdb base url is required")
	}
	if c.TMDB.Timeout <= 0 || c.AniList.Timeout <= 0 {
		return errors.New("upstream timeouts must be > 0")
	}
	if c.AniList.PerPage < 1 || c.AniList.PerPage > 50 {
		return fmt.Errorf("invalid anilist per page: %d (must be between 1 and 50)", c.AniList.PerPage)
	}

	if len(c.Player.DefaultServers) == 0 {
		return errors.New("at least one default player server is required")
	}

	if c.Upstream.RetryAttempts == 0 {
		return errors.New("upstream retry attempts must be at least 1")
	}
	if c.Upstream.BreakerThreshold < 1 {
		return fmt.Errorf("invalid breaker threshold: %d (must be >= 1)", c.Upstream.BreakerThreshold)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache ttl: %v (must be > 0)", c.Cache.TTL)
	}
	if c.Cache.MemoryEntries < 1 {
		return fmt.Errorf("invalid cache memory entries: %d (must be >= 1)", c.Cache.MemoryEntries)
	}

	// The TMDB API key is checked per request so the service can boot without it

	return nil
}

// IsAdminEmail reports whether email is on the admin allow-list (case-insensitive)
func (c *AuthConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, allowed := range c.AdminEmails {
		if strings.ToLower(strings.TrimSpace(allowed)) == email {
			return true
		}
	}
	return false
}

// splitList flattens comma separated entries and drops blanks
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
