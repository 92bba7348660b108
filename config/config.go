package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string

	AccessSecret string
	AdminSecret  string

	// public site base used to build shareable consent links
	BaseURL string
	// policy text version pinned on newly issued consents
	ConsentTextoVersao string

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	RedisURL          string
	RateLimit         int64
	RateWindowSeconds int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		ServerPort:         getenv("SERVER_PORT", ":3000"),
		DatabaseDSN:        os.Getenv("DATABASE_DSN"),
		AccessSecret:       os.Getenv("ACCESS_SECRET"),
		AdminSecret:        os.Getenv("ADMIN_SECRET"),
		BaseURL:            publicBaseURL(),
		ConsentTextoVersao: getenv("CONSENT_TEXT_VERSION", "v1"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		KafkaTopic:         os.Getenv("KAFKA_TOPIC"),
		KafkaUsername:      os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:      os.Getenv("KAFKA_PASSWORD"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimit:          int64(getenvInt("RATE_LIMIT", 30)),
		RateWindowSeconds:  getenvInt("RATE_WINDOW_SECONDS", 60),
	}
}

// publicBaseURL resolves explicit override, then the platform-provided host,
// then the localhost default.
func publicBaseURL() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return v
	}
	if v := os.Getenv("RENDER_EXTERNAL_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}
