package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration. An empty secret disables authentication.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name               string
	Version            string
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	Driver string
}

type AttendanceConfig struct {
	TimeZone         string  `yaml:"timezone"`
	LateThreshold    string  `yaml:"late_threshold"`
	HalfDayThreshold float64 `yaml:"half_day_hours"`
}

type LeaveConfig struct {
	ExcludeHolidays bool
}

// policyFile is the document POLICY_FILE points at.
type policyFile struct {
	Attendance *AttendanceConfig `yaml:"attendance"`
	Leave      *struct {
		ExcludeHolidays *bool `yaml:"exclude_holidays"`
	} `yaml:"leave"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	maxConnLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "hris_timekeeping"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxConnLifetime,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:               getEnv("APP_NAME", "hris-timekeeping"),
		Version:            getEnv("APP_VERSION", "v1.0.0"),
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Storage = StorageConfig{
		Driver: getEnv("STORAGE_DRIVER", StorageDriverPostgres),
	}

	// Attendance policy
	defaults := attendance.DefaultPolicy()
	halfDay, err := strconv.ParseFloat(getEnv("ATTENDANCE_HALF_DAY_HOURS", strconv.FormatFloat(defaults.HalfDayThreshold, 'f', -1, 64)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		TimeZone:         getEnv("ATTENDANCE_TIMEZONE", "UTC"),
		LateThreshold:    getEnv("ATTENDANCE_LATE_THRESHOLD", defaults.LateThreshold.String()),
		HalfDayThreshold: halfDay,
	}

	excludeHolidays, err := strconv.ParseBool(getEnv("LEAVE_EXCLUDE_HOLIDAYS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_EXCLUDE_HOLIDAYS: %w", err)
	}
	config.Leave = LeaveConfig{ExcludeHolidays: excludeHolidays}

	if path := getEnv("POLICY_FILE", ""); path != "" {
		if err := config.applyPolicyFile(path); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyPolicyFile overrides the attendance and leave settings present in the file.
func (c *Config) applyPolicyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read POLICY_FILE: %w", err)
	}

	var doc policyFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse POLICY_FILE: %w", err)
	}

	if doc.Attendance != nil {
		if doc.Attendance.TimeZone != "" {
			c.Attendance.TimeZone = doc.Attendance.TimeZone
		}
		if doc.Attendance.LateThreshold != "" {
			c.Attendance.LateThreshold = doc.Attendance.LateThreshold
		}
		if doc.Attendance.HalfDayThreshold != 0 {
			c.Attendance.HalfDayThreshold = doc.Attendance.HalfDayThreshold
		}
	}
	if doc.Leave != nil && doc.Leave.ExcludeHolidays != nil {
		c.Leave.ExcludeHolidays = *doc.Leave.ExcludeHolidays
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// AuthEnabled reports whether bearer tokens are required on the API.
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

// Location resolves the zone "today" and "now" are evaluated in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Attendance.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c *Config) Policy() (attendance.AttendancePolicy, error) {
	threshold, err := calendar.NormalizeTime(c.Attendance.LateThreshold)
	if err != nil {
		return attendance.AttendancePolicy{}, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD: %w", err)
	}
	if c.Attendance.HalfDayThreshold <= 0 || c.Attendance.HalfDayThreshold > 24 {
		return attendance.AttendancePolicy{}, fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be within (0, 24]")
	}
	return attendance.AttendancePolicy{
		LateThreshold:    threshold,
		HalfDayThreshold: c.Attendance.HalfDayThreshold,
	}, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
