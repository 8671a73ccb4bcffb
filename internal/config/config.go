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
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	Ai        AIConfig
	Voiceflow VoiceflowConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string // frontend, used for verification and reset links
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	JwtTTL             time.Duration
	VerifyTokenTTL     time.Duration
	ResetTokenTTL      time.Duration
	ContactRecipients  []string
	OtelEnabled        bool
	GopsEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type StorageConfig struct {
	// ContractBaseURL is an afs URL, e.g. file:///var/lib/pkv/contracts or s3://bucket/contracts.
	ContractBaseURL string
	MaxUploadBytes  int
}

type AIConfig struct {
	EmbeddingProvider string // "huggingface", "ollama" or "jina"
	EmbeddingModel    string
	EmbeddingBaseURL  string
	EmbeddingTimeout  time.Duration
	MaxQuestionLength int
	CorpusCacheTTL    time.Duration
	PersistEmbeddings bool
	ContractTopic     string
}

type VoiceflowConfig struct {
	APIKey            string
	VersionID         string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MappingFile       string
}

type APIKeys struct {
	HuggingFace string
	Jina        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			JwtTTL:             getEnvAsDuration("JWT_TTL", 24*time.Hour),
			VerifyTokenTTL:     getEnvAsDuration("VERIFY_TOKEN_TTL", 72*time.Hour),
			ResetTokenTTL:      getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
			ContactRecipients:  getEnvAsList("CONTACT_RECIPIENTS", nil),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			GopsEnabled:        getEnvAsBool("GOPS_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "PKV Assistent"),
		},
		Storage: StorageConfig{
			ContractBaseURL: getEnv("CONTRACT_STORAGE_URL", "file:///tmp/pkv/contracts"),
			MaxUploadBytes:  getEnvAsInt("CONTRACT_MAX_UPLOAD_BYTES", 20*1024*1024),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "huggingface"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			EmbeddingTimeout:  getEnvAsDuration("EMBEDDING_TIMEOUT", 60*time.Second),
			MaxQuestionLength: getEnvAsInt("CHATBOT_MAX_QUESTION_LENGTH", 4000),
			CorpusCacheTTL:    getEnvAsDuration("CORPUS_CACHE_TTL", 6*time.Hour),
			PersistEmbeddings: getEnvAsBool("PERSIST_EMBEDDINGS", true),
			ContractTopic:     getEnv("CONTRACT_UPLOADED_TOPIC_NAME", "CONTRACT_UPLOADED"),
		},
		Voiceflow: VoiceflowConfig{
			APIKey:            getEnv("VOICEFLOW_API_KEY", ""),
			VersionID:         getEnv("VOICEFLOW_VERSION_ID", "production"),
			BaseURL:           getEnv("VOICEFLOW_BASE_URL", "https://general-runtime.voiceflow.com"),
			Timeout:           getEnvAsDuration("VOICEFLOW_TIMEOUT", 45*time.Second),
			RequestsPerSecond: getEnvAsFloat("VOICEFLOW_RPS", 5),
			Burst:             getEnvAsInt("VOICEFLOW_BURST", 10),
			MappingFile:       getEnv("VOICEFLOW_MAPPING_FILE", ""),
		},
		Keys: APIKeys{
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:        getEnv("JINA_API_KEY", ""),
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

// getEnvAsDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
