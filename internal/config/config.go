package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BackendURL    string
	HTTPTimeout   time.Duration
	RedisAddr     string // empty = file-based token store instead of redis
	TokenFile     string
	DevServerAddr string
	Debug         bool
}

func Load() Config {
	return Config{
		BackendURL:    getenv("BACKEND_URL", "http://localhost:4000"),
		HTTPTimeout:   getdur("HTTP_TIMEOUT", 10*time.Second),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		TokenFile:     getenv("TOKEN_FILE", ".storefront-token"),
		DevServerAddr: getenv("DEVSERVER_ADDR", ":4000"),
		Debug:         getbool("DEBUG", false),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
