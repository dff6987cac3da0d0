package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Curation CurationConfig
	Realtime RealtimeConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	WorkerEmbedded     bool
}

type DatabaseConfig struct {
	Connection string
	Driver     string // "postgres" or "memory"
}

type AuthConfig struct {
	JwtSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMModel      string
	OpenAIKey     string
	OpenAIBaseURL string
	OllamaBaseURL string
}

type CurationConfig struct {
	Topic          string
	MaxAttempts    int
	RetryDelay     time.Duration
	CallTimeout    time.Duration
	PollInterval   time.Duration
	JobLease       time.Duration
	MaxDeliveries  int
	LockTTL        time.Duration
	StrictTimeline bool
}

type RealtimeConfig struct {
	BaseURL  string
	Model    string
	Voice    string
	TokenTTL time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "4000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/session_push.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			WorkerEmbedded:     getEnvAsBool("WORKER_EMBEDDED", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Driver:     getEnv("STORE_DRIVER", "postgres"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Curation: CurationConfig{
			Topic:          getEnv("CURATION_TOPIC", "session.curate"),
			MaxAttempts:    getEnvAsInt("CURATION_MAX_ATTEMPTS", 2),
			RetryDelay:     getEnvAsDuration("CURATION_RETRY_DELAY", 3*time.Second),
			CallTimeout:    getEnvAsDuration("CURATION_CALL_TIMEOUT", 30*time.Second),
			PollInterval:   getEnvAsDuration("CURATION_POLL_INTERVAL", 800*time.Millisecond),
			JobLease:       getEnvAsDuration("CURATION_JOB_LEASE", 5*time.Minute),
			MaxDeliveries:  getEnvAsInt("CURATION_MAX_DELIVERIES", 3),
			LockTTL:        getEnvAsDuration("CURATION_LOCK_TTL", 2*time.Minute),
			StrictTimeline: getEnvAsBool("CURATION_STRICT_TIMELINE", true),
		},
		Realtime: RealtimeConfig{
			BaseURL:  getEnv("REALTIME_BASE_URL", "https://api.openai.com/v1"),
			Model:    getEnv("OPENAI_REALTIME_MODEL", "gpt-4o-realtime-preview"),
			Voice:    getEnv("REALTIME_VOICE", "alloy"),
			TokenTTL: getEnvAsDuration("REALTIME_TOKEN_TTL", 50*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
