package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Source data
	FHIRDir     string
	CatalogPath string
	ExportCSV   string

	// Retrieval
	DefaultTopK int

	// Database
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Summary cache
	SummaryCacheTTL time.Duration

	// Kafka
	KafkaBrokers     []string
	KafkaGroupID     string
	ResourceTopic    string
	RebuiltTopic     string
	RebuildDebounce  time.Duration
	IngestionEnabled bool
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		FHIRDir:     getEnv("FHIR_DIR", "./data/fhir"),
		CatalogPath: getEnv("TERMINOLOGY_CATALOG", ""),
		ExportCSV:   getEnv("EXPORT_CSV_PATH", "./data/patient_summaries.csv"),

		DefaultTopK: getIntEnv("DEFAULT_TOP_K", 5),

		PostgresEnabled:  getBoolEnv("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "clinisearch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "clinisearch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "clinisearch"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		SummaryCacheTTL: getDuration("SUMMARY_CACHE_TTL", 10*time.Minute),

		KafkaBrokers:     getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "summary-service"),
		ResourceTopic:    getEnv("RESOURCE_TOPIC", "clinical-resources"),
		RebuiltTopic:     getEnv("REBUILT_TOPIC", "summary-rebuilt"),
		RebuildDebounce:  getDuration("REBUILD_DEBOUNCE", 5*time.Second),
		IngestionEnabled: getBoolEnv("INGESTION_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
