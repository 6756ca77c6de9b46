package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	ListenerPort string
	Environment  string
	// Database Configuration
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	// Auth Configuration
	JWTSecret     string
	JWTTTLMinutes int
	AuthUsers     map[string]string
	// Kafka Configuration
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaTopicStock string
	KafkaTopicCases string
	KafkaClientID   string
	KafkaAcks       string
	KafkaRetries    int
	KafkaGroupID    string
	DLQEnabled      bool
	DLQTopic        string
	// Listener Configuration
	JournalSQLitePath string
	MaxRetries        int
	RetryDelayMs      int
	// Redis Configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// HTTP Configuration
	IdempotencyTTLSeconds int
	RateLimitPerMinute    int
	RateLimitBurst        int
	CORSAllowedOrigins    []string
	// Planning
	ExpiringSoonDays int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		ListenerPort: getEnv("LISTENER_PORT", "8082"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		// Database Configuration
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "dental_inventory"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		// Auth Configuration
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
		JWTTTLMinutes: getEnvAsInt("JWT_TTL_MINUTES", 10),
		AuthUsers:     parseUsers(getEnv("AUTH_USERS", "admin:admin123")),
		// Kafka Configuration
		KafkaEnabled:    getEnvAsBool("KAFKA_ENABLED", true),
		KafkaBrokers:    getEnvAsList("KAFKA_BROKERS", "localhost:9093"),
		KafkaTopicStock: getEnv("KAFKA_TOPIC_STOCK", "inventory.stock"),
		KafkaTopicCases: getEnv("KAFKA_TOPIC_CASES", "surgery.cases"),
		KafkaClientID:   getEnv("KAFKA_CLIENT_ID", "inventory-core"),
		KafkaAcks:       getEnv("KAFKA_ACKS", "all"),
		KafkaRetries:    getEnvAsInt("KAFKA_RETRIES", 3),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "stock-journal"),
		DLQEnabled:      getEnvAsBool("KAFKA_DLQ_ENABLED", true),
		DLQTopic:        getEnv("KAFKA_DLQ_TOPIC", "inventory.stock.dlq"),
		// Listener Configuration
		JournalSQLitePath: getEnv("JOURNAL_SQLITE_PATH", "./journal.db"),
		MaxRetries:        getEnvAsInt("MAX_RETRIES", 3),
		RetryDelayMs:      getEnvAsInt("RETRY_DELAY_MS", 1000),
		// Redis Configuration
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		// HTTP Configuration
		IdempotencyTTLSeconds: getEnvAsInt("IDEMPOTENCY_TTL_SECONDS", 300),
		RateLimitPerMinute:    getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 40),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),
		// Planning
		ExpiringSoonDays: getEnvAsInt("EXPIRING_SOON_DAYS", 30),
	}
}

// parseUsers reads "user:password" pairs separated by commas
func parseUsers(value string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		name, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" || password == "" {
			continue
		}
		users[name] = password
	}
	return users
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

// getEnvAsList splits a comma-separated value
func getEnvAsList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
