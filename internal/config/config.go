package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"timeclock/internal/domain"
)

// Config holds all configuration options for the time clock
type Config struct {
	Database      DatabaseConfig
	Clock         ClockConfig
	BusinessHours BusinessHoursConfig
	Punch         PunchConfig
	Payroll       PayrollConfig
	Cache         CacheConfig
	Server        ServerConfig
	Application   ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TC_DB_DIR"`
	Filename       string        `env:"TC_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TC_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TC_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TC_DB_DIR_PERMISSIONS"`
}

// ClockConfig selects the zone punch date and time strings are read in
type ClockConfig struct {
	TimeZone string `env:"TC_TIMEZONE"`
}

// BusinessHoursConfig holds the daily window worked time is clipped to
type BusinessHoursConfig struct {
	Open  string `env:"TC_OPEN"`
	Close string `env:"TC_CLOSE"`
}

// PunchConfig holds punch defaults
type PunchConfig struct {
	DefaultPosition string `env:"TC_DEFAULT_POSITION"`
	HistoryDays     int    `env:"TC_HISTORY_DAYS"`
}

// PayrollConfig holds pay settings
type PayrollConfig struct {
	DefaultHourlyWage int64 `env:"TC_DEFAULT_WAGE"`
	AnnualIncomeLimit int64 `env:"TC_ANNUAL_INCOME_LIMIT"`
}

// CacheConfig tunes the roster cache
type CacheConfig struct {
	RosterTTL  time.Duration `env:"TC_ROSTER_TTL"`
	RosterSize int           `env:"TC_ROSTER_SIZE"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `env:"TC_ADDR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `env:"TC_APP_TIMEOUT"`
	Verbose   bool          `env:"TC_APP_VERBOSE"`
	LogLevel  string        `env:"TC_LOG_LEVEL"`
	LogFormat string        `env:"TC_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tc")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "tc.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Clock: ClockConfig{
			TimeZone: "Asia/Tokyo",
		},
		BusinessHours: BusinessHoursConfig{
			Open:  "09:00",
			Close: "22:00",
		},
		Punch: PunchConfig{
			DefaultPosition: domain.DefaultPosition,
			HistoryDays:     30,
		},
		Payroll: PayrollConfig{
			DefaultHourlyWage: 0,
			AnnualIncomeLimit: domain.DefaultAnnualIncomeLimit,
		},
		Cache: CacheConfig{
			RosterTTL:  5 * time.Minute,
			RosterSize: 64,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Application: ApplicationConfig{
			Timeout:   60 * time.Second,
			Verbose:   false,
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Clock.TimeZone)
}

// Window parses the configured business hours.
func (c *Config) Window() (domain.BusinessWindow, error) {
	return domain.ParseBusinessWindow(c.BusinessHours.Open, c.BusinessHours.Close)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("TC_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TC_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TC_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TC_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TC_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Clock and business hours
	if tz := os.Getenv("TC_TIMEZONE"); tz != "" {
		c.Clock.TimeZone = tz
	}
	if open := os.Getenv("TC_OPEN"); open != "" {
		c.BusinessHours.Open = open
	}
	if closeAt := os.Getenv("TC_CLOSE"); closeAt != "" {
		c.BusinessHours.Close = closeAt
	}

	// Punch configuration
	if pos := os.Getenv("TC_DEFAULT_POSITION"); pos != "" {
		c.Punch.DefaultPosition = pos
	}
	if days := os.Getenv("TC_HISTORY_DAYS"); days != "" {
		c.Punch.HistoryDays = ParseIntWithFallback(days, c.Punch.HistoryDays)
	}

	// Payroll configuration
	if wage := os.Getenv("TC_DEFAULT_WAGE"); wage != "" {
		if n, err := strconv.ParseInt(wage, 10, 64); err == nil {
			c.Payroll.DefaultHourlyWage = n
		}
	}
	if limit := os.Getenv("TC_ANNUAL_INCOME_LIMIT"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			c.Payroll.AnnualIncomeLimit = n
		}
	}

	// Cache configuration
	if ttl := os.Getenv("TC_ROSTER_TTL"); ttl != "" {
		c.Cache.RosterTTL = ParseDurationWithFallback(ttl, c.Cache.RosterTTL)
	}
	if size := os.Getenv("TC_ROSTER_SIZE"); size != "" {
		c.Cache.RosterSize = ParseIntWithFallback(size, c.Cache.RosterSize)
	}

	// Server configuration
	if addr := os.Getenv("TC_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// Application configuration
	if timeout := os.Getenv("TC_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TC_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if level := os.Getenv("TC_LOG_LEVEL"); level != "" {
		c.Application.LogLevel = level
	}
	if format := os.Getenv("TC_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "clock.time_zone", Message: "unknown time zone " + strconv.Quote(c.Clock.TimeZone)}
	}
	if _, err := c.Window(); err != nil {
		return &ConfigError{Field: "business_hours", Message: err.Error()}
	}

	if c.Punch.DefaultPosition == "" {
		return &ConfigError{Field: "punch.default_position", Message: "default position cannot be empty"}
	}
	if c.Punch.HistoryDays < 1 {
		return &ConfigError{Field: "punch.history_days", Message: "history days must be at least 1"}
	}

	if c.Payroll.DefaultHourlyWage < 0 {
		return &ConfigError{Field: "payroll.default_hourly_wage", Message: "default wage cannot be negative"}
	}
	if c.Payroll.AnnualIncomeLimit <= 0 {
		return &ConfigError{Field: "payroll.annual_income_limit", Message: "annual income limit must be positive"}
	}

	if c.Cache.RosterTTL <= 0 {
		return &ConfigError{Field: "cache.roster_ttl", Message: "roster ttl must be positive"}
	}
	if c.Cache.RosterSize < 1 {
		return &ConfigError{Field: "cache.roster_size", Message: "roster cache size must be at least 1"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
