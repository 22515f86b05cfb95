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
	Keys     APIKeys
	Ai       AIConfig
	Search   SearchConfig
	Ingest   IngestConfig
	Tagger   TaggerConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	LibraryServiceURL  string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Kakao        string
	GoogleGemini string
	Jina         string
	HuggingFace  string
	OpenAI       string
}

type AIConfig struct {
	EmbeddingProvider   string // "ollama", "gemini" or "jina"
	EmbeddingModel      string
	EmbeddingDimensions int
	OllamaBaseURL       string
	LLMProvider         string // "ollama", "gemini", "huggingface", "openai"
	LLMModel            string
	LLMBaseURL          string
	LLMTimeout          time.Duration
	IntentAugmentation  bool
	KeywordSuggestions  bool
}

type SearchConfig struct {
	ResultLimit      int
	FetchLimit       int
	MaxKeywords      int
	DefaultThreshold float64
	AuthorThreshold  float64
}

type IngestConfig struct {
	SimilarityThreshold float64
	MaxPages            int
	KakaoRequestsPerSec float64
}

type TaggerConfig struct {
	Enabled          bool
	Model            string
	RetryModel       string
	RetryThreshold   int
	RetryConcurrency int
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8081"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			LibraryServiceURL:  getEnv("LIBRARY_SERVICE_URL", "http://localhost:8080"),
			IngestTopic:        getEnv("INGEST_TOPIC_NAME", "BOOK_INGEST_JOB"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Kakao:        getEnv("KAKAO_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", ""),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:         getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:            getEnv("LLM_MODEL", "gemini-2.5-flash"),
			LLMBaseURL:          getEnv("LLM_BASE_URL", ""),
			LLMTimeout:          time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 20)) * time.Second,
			IntentAugmentation:  getEnvAsBool("INTENT_LLM_AUGMENTATION", false),
			KeywordSuggestions:  getEnvAsBool("KEYWORD_LLM_SUGGESTIONS", false),
		},
		Search: SearchConfig{
			ResultLimit:      getEnvAsInt("AI_SEARCH_LIMIT", 20),
			FetchLimit:       getEnvAsInt("AI_SEARCH_FETCH_LIMIT", 60),
			MaxKeywords:      getEnvAsInt("AI_SEARCH_MAX_KEYWORDS", 12),
			DefaultThreshold: getEnvAsFloat("AI_SIMILARITY_THRESHOLD", 0.55),
			AuthorThreshold:  getEnvAsFloat("AI_AUTHOR_THRESHOLD", 0.40),
		},
		Ingest: IngestConfig{
			SimilarityThreshold: getEnvAsFloat("INGEST_SIMILARITY_THRESHOLD", 0.65),
			MaxPages:            getEnvAsInt("INGEST_MAX_PAGES", 5),
			KakaoRequestsPerSec: getEnvAsFloat("KAKAO_REQUESTS_PER_SECOND", 5),
		},
		Tagger: TaggerConfig{
			Enabled:          getEnvAsBool("TAGGER_ENABLED", true),
			Model:            getEnv("GEMINI_CLASSIFIER_MODEL", "gemini-2.5-flash"),
			RetryModel:       getEnv("TAGGER_RETRY_MODEL", "gemini-2.5-pro"),
			RetryThreshold:   getEnvAsInt("TAGGER_RETRY_THRESHOLD", 10),
			RetryConcurrency: getEnvAsInt("TAGGER_RETRY_CONCURRENCY", 2),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("SEARCH_CACHE_ENABLED", true),
			TTL:     time.Duration(getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 600)) * time.Second,
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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
