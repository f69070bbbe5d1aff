package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Parser   ParserConfig
	Matcher  MatcherConfig
	Queue    QueueConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ParserConfig holds the shorthand parser defaults and capability flags.
type ParserConfig struct {
	MaterialID  string
	ThicknessMM float64
	EdgebandID  string
	Edging      bool
	Grooving    bool
	Holes       bool
	CNC         bool
}

// MatcherConfig holds the part matcher tolerances and weights. These are
// configuration rather than constants so QA suites can probe edge cases
// without code changes.
type MatcherConfig struct {
	AcceptThreshold float64
	DimensionTolMM  float64
	DimensionNearMM float64
	DimensionWeight float64
	QuantityWeight  float64
	LabelWeight     float64
}

// QueueConfig holds the async sample persistence queue sizing.
type QueueConfig struct {
	Workers int
	Size    int
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", "./cutplan.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Parser: ParserConfig{
			MaterialID:  getEnv("DEFAULT_MATERIAL", "mdf-18"),
			ThicknessMM: getEnvAsFloat64("DEFAULT_THICKNESS_MM", 18),
			EdgebandID:  getEnv("DEFAULT_EDGEBAND", "abs-2mm"),
			Edging:      getEnvAsBool("CAP_EDGING", true),
			Grooving:    getEnvAsBool("CAP_GROOVING", true),
			Holes:       getEnvAsBool("CAP_HOLES", true),
			CNC:         getEnvAsBool("CAP_CNC", false),
		},
		Matcher: MatcherConfig{
			AcceptThreshold: getEnvAsFloat64("MATCH_ACCEPT_THRESHOLD", 0.5),
			DimensionTolMM:  getEnvAsFloat64("MATCH_DIM_TOL_MM", 2),
			DimensionNearMM: getEnvAsFloat64("MATCH_DIM_NEAR_MM", 10),
			DimensionWeight: getEnvAsFloat64("MATCH_DIM_WEIGHT", 0.5),
			QuantityWeight:  getEnvAsFloat64("MATCH_QTY_WEIGHT", 0.3),
			LabelWeight:     getEnvAsFloat64("MATCH_LABEL_WEIGHT", 0.2),
		},
		Queue: QueueConfig{
			Workers: getEnvAsInt("QUEUE_WORKERS", 2),
			Size:    getEnvAsInt("QUEUE_SIZE", 256),
			Timeout: getEnvAsDuration("QUEUE_TIMEOUT", 30*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" && c.Database.SQLitePath == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL or SQLITE_PATH is required", ErrInvalidInput)
	}
	if c.Parser.MaterialID == "" {
		return NewAppError("CONFIG_ERROR", "DEFAULT_MATERIAL is required", ErrInvalidInput)
	}
	if c.Parser.ThicknessMM <= 0 {
		return NewAppError("CONFIG_ERROR", "DEFAULT_THICKNESS_MM must be positive", ErrInvalidInput)
	}
	if c.Matcher.AcceptThreshold <= 0 || c.Matcher.AcceptThreshold >= 1 {
		return NewAppError("CONFIG_ERROR", "MATCH_ACCEPT_THRESHOLD must be in (0,1)", ErrInvalidInput)
	}
	return nil
}
