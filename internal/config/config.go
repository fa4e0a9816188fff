package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB         DatabaseConfig
	Redis      RedisConfig
	OpenRouter OpenRouterConfig
	Agent      AgentConfig
	Suggestion SuggestionConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OpenRouterConfig contains credentials for the hosted language model.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// AgentConfig bounds the conversational agent loop and its session store.
type AgentConfig struct {
	MaxToolSteps       int
	SessionTTL         time.Duration
	HistoryMaxMessages int
}

// SuggestionConfig tunes the product suggestion scoring policy. Weights are a
// policy knob, not a contract; ordering ties are always broken the same way.
type SuggestionConfig struct {
	WeightHistory    float64
	WeightPopularity float64
	WeightExpiry     float64
	WeightNovelty    float64
	ExpirySoonDays   int
	ClientWindow     time.Duration
	GlobalWindow     time.Duration
	DefaultTopN      int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// OpenRouter (hosted LLM)
	cfg.OpenRouter = OpenRouterConfig{
		APIKey:  getEnv("OPENROUTER_API_KEY", ""),
		Model:   getEnv("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),
		BaseURL: getEnv("OPENROUTER_BASE_URL", ""),
	}

	var err error
	if cfg.OpenRouter.Timeout, err = parseDurationEnv("OPENROUTER_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid OPENROUTER_TIMEOUT: %w", err)
	}

	// Agent loop and session store
	cfg.Agent = AgentConfig{
		MaxToolSteps:       getEnvInt("AGENT_MAX_TOOL_STEPS", 6),
		HistoryMaxMessages: getEnvInt("AGENT_HISTORY_MAX_MESSAGES", 40),
	}
	if cfg.Agent.SessionTTL, err = parseDurationEnv("AGENT_SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid AGENT_SESSION_TTL: %w", err)
	}

	// Suggestion scoring policy
	cfg.Suggestion = SuggestionConfig{
		WeightHistory:    getEnvFloat("SUGGEST_WEIGHT_HISTORY", 0.45),
		WeightPopularity: getEnvFloat("SUGGEST_WEIGHT_POPULARITY", 0.25),
		WeightExpiry:     getEnvFloat("SUGGEST_WEIGHT_EXPIRY", 0.20),
		WeightNovelty:    getEnvFloat("SUGGEST_WEIGHT_NOVELTY", 0.10),
		ExpirySoonDays:   getEnvInt("SUGGEST_EXPIRY_SOON_DAYS", 30),
		ClientWindow:     26 * 7 * 24 * time.Hour,
		GlobalWindow:     52 * 7 * 24 * time.Hour,
		DefaultTopN:      getEnvInt("SUGGEST_DEFAULT_TOP_N", 5),
	}

	// Validate DB parameters
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvFloat returns the value of an environment variable as a float or a default if empty/invalid.
func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
