package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string

	// Generation budget for section content. Outline generation uses a
	// tighter budget hardcoded in the orchestrator.
	MaxOutputTokens   int
	Temperature       float64
	GenerationTimeout time.Duration

	// Priority ladder of preferred backend models, fastest first.
	PreferredModels []string
}

var AppConfig Config

// defaultPreferredModels favors the small flash-class models; generation
// latency matters more than ceiling quality for study content.
var defaultPreferredModels = []string{
	"gemini-1.5-flash-8b",
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-2.0-flash-lite",
	"gemini-2.0-flash",
	"gemini-1.5-pro-latest",
}

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", "learning_tutor.db"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		MaxOutputTokens:   getEnvAsInt("MAX_OUTPUT_TOKENS", 1200),
		Temperature:       getEnvAsFloat("TEMPERATURE", 0.5),
		GenerationTimeout: time.Duration(getEnvAsInt("GENERATION_TIMEOUT_SECONDS", 20)) * time.Second,
		PreferredModels:   getEnvAsList("PREFERRED_MODELS", defaultPreferredModels),
	}

	// The API key is optional: without it the service runs in template-only
	// mode and every request is served from the deterministic fallbacks.
	if AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, running in template-only mode")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
