package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	Store       string // mysql | sqlite | postgres
	MySQLDSN    string
	SQLiteDSN   string
	PostgresDSN string
	CSVPath     string

	RedisAddr  string
	RedisDB    int
	RedisPass  string
	CacheTTL   time.Duration
	SessionTTL time.Duration

	LLMEngine   string // ollama | gemini | off
	OllamaURL   string
	OllamaModel string
	GeminiKey   string
	GeminiModel string
	LLMRPS      int
	LLMWordCap  int

	AMQPURL        string
	SeedWorkers    int
	PropertyConfig string
	BotToken       string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		Store:       env("STORE", "sqlite"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/frontdesk?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		SQLiteDSN:   env("SQLITE_DSN", ":memory:"),
		PostgresDSN: env("POSTGRES_DSN", ""),
		CSVPath:     env("CSV_PATH", "hotel_rooms.csv"),

		RedisAddr:  env("REDIS_ADDR", "localhost:6379"),
		RedisPass:  env("REDIS_PASSWORD", ""),
		RedisDB:    atoi("REDIS_DB", 0),
		CacheTTL:   time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL: time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,

		LLMEngine:   env("LLM_ENGINE", "ollama"),
		OllamaURL:   env("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: env("OLLAMA_MODEL", "llama3.2:1b"),
		GeminiKey:   env("GEMINI_API_KEY", ""),
		GeminiModel: env("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMRPS:      atoi("LLM_RPS", 5),
		LLMWordCap:  atoi("LLM_WORD_CAP", 50),

		AMQPURL:        env("AMQP_URL", ""),
		SeedWorkers:    atoi("SEED_WORKERS", 8),
		PropertyConfig: env("PROPERTY_CONFIG", ""),
		BotToken:       env("BOT_TOKEN", ""),
	}
	if c.LLMEngine == "gemini" && c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
