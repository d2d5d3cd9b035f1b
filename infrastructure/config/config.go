package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Embedding provider
	OpenAIAPIKey   string
	EmbeddingModel string

	// Vector index
	VectorIndexURL   string
	VectorIndexToken string

	// Matching
	PrimaryThreshold float64
	FuzzyThreshold   float64
	TopK             int

	// Rate limiting
	RequestsPerMinute int

	// Authentication (admin endpoints)
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel        string
	EnableCORS      bool
	EnableAnalytics bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "eu-central-1"),
		DynamoDBTable: getEnv("TABLE_NAME", "destek"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "destek-events"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),

		VectorIndexURL:   getEnv("VECTOR_INDEX_URL", ""),
		VectorIndexToken: getEnv("VECTOR_INDEX_TOKEN", ""),

		PrimaryThreshold: getEnvFloat("PRIMARY_THRESHOLD", 0.7),
		FuzzyThreshold:   getEnvFloat("FUZZY_THRESHOLD", 0.6),
		TopK:             getEnvInt("SEARCH_TOP_K", 5),

		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 60),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "destek-backend"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		EnableCORS:      getEnvBool("ENABLE_CORS", true),
		EnableAnalytics: getEnvBool("ENABLE_ANALYTICS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is consistent
func (c *Config) Validate() error {
	if c.FuzzyThreshold > c.PrimaryThreshold {
		return fmt.Errorf("FUZZY_THRESHOLD (%.2f) must not exceed PRIMARY_THRESHOLD (%.2f)", c.FuzzyThreshold, c.PrimaryThreshold)
	}
	if c.PrimaryThreshold < 0 || c.PrimaryThreshold > 1 || c.FuzzyThreshold < 0 {
		return fmt.Errorf("thresholds must lie in [0, 1]")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("SEARCH_TOP_K must be positive")
	}

	if c.Environment == "production" {
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
		if c.VectorIndexURL == "" {
			return fmt.Errorf("VECTOR_INDEX_URL is required in production")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
