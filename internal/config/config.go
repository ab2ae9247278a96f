package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AccessKey          string
	RedisAddr          string
	InsightURL         string
	InsightToken       string
	InsightCooldown    time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	accessKey := os.Getenv("ACCESS_KEY")
	if accessKey == "" {
		accessKey = "1234"
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		AccessKey:          accessKey,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		InsightURL:         os.Getenv("INSIGHT_URL"),
		InsightToken:       os.Getenv("INSIGHT_TOKEN"),
		InsightCooldown:    readDurationSeconds("INSIGHT_COOLDOWN_SECONDS", 300),
		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 30),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
