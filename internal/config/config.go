package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the fact lookup service
type Config struct {
	Corpus    CorpusConfig
	LLM       LLMConfig
	Server    ServerConfig
	Profile   ProfileConfig
	WebSearch WebSearchConfig
	LogLevel  string
}

// CorpusConfig says where the fact corpus lives. URL wins over Path when set.
type CorpusConfig struct {
	Path          string
	URL           string
	FetchTimeout  time.Duration
	RespectRobots bool
	UserAgent     string
}

type LLMConfig struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr        string
	CORSOrigin  string
	SearchLimit int
}

// ProfileConfig describes the user the assistant talks to
type ProfileConfig struct {
	Name string
	Role string
	Tech string
}

// WebSearchConfig controls the web lookup used by chat when the corpus has
// no matching fact
type WebSearchConfig struct {
	Enabled    bool
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
	UserAgent  string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path:          GetStringEnv("KNOWLEDGE_FILE", "knowledge.txt"),
			URL:           GetStringEnv("KNOWLEDGE_URL", ""),
			FetchTimeout:  GetDurationEnv("KNOWLEDGE_FETCH_TIMEOUT", 5*time.Second),
			RespectRobots: GetBoolEnv("KNOWLEDGE_RESPECT_ROBOTS", true),
			UserAgent:     GetStringEnv("KNOWLEDGE_USER_AGENT", "factfinder/1.0"),
		},
		LLM: LLMConfig{
			Provider: GetStringEnv("LLM_PROVIDER", "ollama"),
			BaseURL:  GetStringEnv("LLM_BASE_URL", ""),
			Model:    GetStringEnv("LLM_MODEL", "llama3.1:8b"),
			APIKey:   GetStringEnv("LLM_API_KEY", ""),
			Timeout:  GetDurationEnv("LLM_TIMEOUT", 2*time.Minute),
		},
		Server: ServerConfig{
			Addr:        GetStringEnv("SERVER_ADDR", "127.0.0.1:8080"),
			CORSOrigin:  GetStringEnv("CORS_ORIGIN", "http://localhost:5173"),
			SearchLimit: GetIntEnv("SEARCH_TOP_K", 5),
		},
		Profile: ProfileConfig{
			Name: GetStringEnv("PROFILE_NAME", "User"),
			Role: GetStringEnv("PROFILE_ROLE", ""),
			Tech: GetStringEnv("PROFILE_TECH", ""),
		},
		WebSearch: WebSearchConfig{
			Enabled:    GetBoolEnv("WEB_SEARCH_ENABLED", true),
			Endpoint:   GetStringEnv("WEB_SEARCH_URL", "https://html.duckduckgo.com/html/"),
			MaxResults: GetIntEnv("WEB_SEARCH_MAX_RESULTS", 3),
			Timeout:    GetDurationEnv("WEB_SEARCH_TIMEOUT", 10*time.Second),
			UserAgent:  GetStringEnv("WEB_SEARCH_USER_AGENT", "Mozilla/5.0 (compatible; factfinder/1.0)"),
		},
		LogLevel: GetStringEnv("LOG_LEVEL", "info"),
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
