package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string
	UploadDir    string

	// Language model
	GeminiAPIKey string
	GeminiModel  string

	// Speech providers
	CartesiaAPIKey string
	CartesiaVoice  string
	WhisperModel   string

	// Web search (Google Custom Search)
	SearchAPIKey string
	SearchCX     string

	// Launcher alias overlay (optional YAML file)
	AliasConfigPath string

	// Turn pipeline
	ChatMemoryLimit  int           // last N turns included in the persona prompt
	FactsLimit       int           // maximum stored facts surfaced to the model
	WatchdogTimeout  time.Duration // force-clears a stuck turn
	ReminderInterval time.Duration // due-reminder re-check cadence
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "5000"),
		DatabasePath: getEnv("DATABASE_PATH", "mira.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		CartesiaAPIKey: getEnv("CARTESIA_API_KEY", ""),
		CartesiaVoice:  getEnv("CARTESIA_VOICE_ID", ""),
		WhisperModel:   getEnv("WHISPER_MODEL", "medium"),

		SearchAPIKey: getEnv("GOOGLE_CSE_KEY", ""),
		SearchCX:     getEnv("GOOGLE_CSE_CX", ""),

		AliasConfigPath: getEnv("ALIAS_CONFIG_PATH", ""),

		ChatMemoryLimit:  getIntEnv("CHAT_MEMORY_LIMIT", 12),
		FactsLimit:       getIntEnv("FACTS_LIMIT", 20),
		WatchdogTimeout:  getDurationEnv("WATCHDOG_TIMEOUT", 6*time.Second),
		ReminderInterval: getDurationEnv("REMINDER_INTERVAL", time.Minute),
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
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
