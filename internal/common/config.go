package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/po-tracker/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Upload   UploadConfig
	TempDir  TempDirConfig
	Cache    CacheConfig
	Queue    QueueConfig
	Log      LogConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	InMemory         bool
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCAddr       string
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract     string
	Pdftoppm      string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	Preprocess    bool
	TSVConfidence bool
}

// UploadConfig bounds what the upload endpoint accepts
type UploadConfig struct {
	MaxBytes int64
}

// TempDirConfig controls where uploads are staged and how long they may linger
type TempDirConfig struct {
	Dir           string
	SweepSchedule string
	MaxAge        time.Duration
}

// CacheConfig configures the OCR text cache; an empty RedisURL selects the in-memory cache
type CacheConfig struct {
	RedisURL string
	Prefix   string
	TTL      time.Duration
}

// QueueConfig sizes the background processing pool
type QueueConfig struct {
	Workers        int
	Size           int
	ProcessTimeout time.Duration
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string
	Format string // "json" | "text"
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first; variables already set take precedence.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config.dotenv.ignored", "error", err)
	}

	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			InMemory:         getEnvAsBool("DB_INMEM", false),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
			GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
			AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
			ShutdownGrace:  getEnvAsDuration("SHUTDOWN_GRACE", 15*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_CMD", "tesseract"),
			Pdftoppm:      getEnv("PDFTOPPM_CMD", "pdftoppm"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng+jpn"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			Preprocess:    getEnvAsBool("OCR_PREPROCESS", true),
			TSVConfidence: getEnvAsBool("OCR_TSV_CONFIDENCE", false),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("MAX_FILE_SIZE", constants.MaxUploadBytes)),
		},
		TempDir: TempDirConfig{
			Dir:           getEnv("TEMP_DIR", ""),
			SweepSchedule: getEnv("TEMP_SWEEP_SCHEDULE", "@every 30m"),
			MaxAge:        getEnvAsDuration("TEMP_MAX_AGE", 24*time.Hour),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Prefix:   getEnv("CACHE_PREFIX", "po-tracker:ocr:"),
			TTL:      getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		Queue: QueueConfig{
			Workers:        getEnvAsInt("QUEUE_WORKERS", 4),
			Size:           getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("QUEUE_PROCESS_TIMEOUT", 3*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks the settings a server cannot start without.
func (c *Config) Validate() error {
	if c.Database.DSN == "" && !c.Database.InMemory {
		return NewAppError("CONFIG_ERROR", "DB_URL is required unless DB_INMEM is set", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Upload.MaxBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_FILE_SIZE must be positive", ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
