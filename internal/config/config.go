package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Pipeline PipelineConfig
	NewsAPI  NewsAPIConfig
	Yahoo    YahooConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Env      string
	LogLevel string
}

// PipelineConfig holds the ticker being analysed and how runs are stored
type PipelineConfig struct {
	Ticker         string
	SearchTerm     string
	Language       string
	LookbackDays   int
	Scorer         string
	LexiconPath    string
	DataDir        string
	StorageBackend string
}

// NewsAPIConfig holds NewsAPI.org client configuration
type NewsAPIConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Country  string
	Category string
	Timeout  time.Duration
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Pipeline: PipelineConfig{
			Ticker:         getEnv("TICKER", "PETR4.SA"),
			SearchTerm:     getEnv("SEARCH_TERM", "Petrobras"),
			Language:       getEnv("NEWS_LANGUAGE", "pt"),
			LookbackDays:   getEnvInt("LOOKBACK_DAYS", 30),
			Scorer:         getEnv("SENTIMENT_SCORER", "keyword"),
			LexiconPath:    getEnv("SENTIMENT_LEXICON_PATH", ""),
			DataDir:        getEnv("DATA_DIR", "data"),
			StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		},
		NewsAPI: NewsAPIConfig{
			APIKey:   getEnv("NEWSAPI_KEY", ""),
			BaseURL:  getEnv("NEWSAPI_BASE_URL", "https://newsapi.org/v2"),
			PageSize: getEnvInt("NEWSAPI_PAGE_SIZE", 5),
			Country:  getEnv("NEWSAPI_COUNTRY", "br"),
			Category: getEnv("NEWSAPI_CATEGORY", "business"),
			Timeout:  getEnvDuration("NEWSAPI_TIMEOUT", 30*time.Second),
		},
		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout: getEnvDuration("YAHOO_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "stocksentiment"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "sentiment-datasets"),
			GroupID: getEnv("KAFKA_GROUP_ID", "sentiment-dashboard"),
		},
	}
}

// ValidateCollector checks the settings the collector cannot run without
func (c *Config) ValidateCollector() error {
	if c.NewsAPI.APIKey == "" {
		return fmt.Errorf("NEWSAPI_KEY not configured, check your .env file")
	}
	return c.validatePipeline()
}

// ValidateProcessor checks the settings the processor cannot run without
func (c *Config) ValidateProcessor() error {
	return c.validatePipeline()
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Ticker == "" {
		return fmt.Errorf("TICKER is required")
	}
	if c.Pipeline.SearchTerm == "" {
		return fmt.Errorf("SEARCH_TERM is required")
	}
	if c.Pipeline.LookbackDays <= 0 {
		return fmt.Errorf("LOOKBACK_DAYS must be positive, got %d", c.Pipeline.LookbackDays)
	}
	switch c.Pipeline.StorageBackend {
	case BackendFile, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Pipeline.StorageBackend)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Addr returns the HTTP listen address
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
