package config

import (
	"log"
	"os"
)

type Config struct {
	PostgresDSN   string
	RedisURL      string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	AdminAltPath  string
	AllowOrigins  string
	Port          string
	TLSCert       string
	TLSKey        string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	return Config{
		PostgresDSN:   getenv("POSTGRES_DSN", "host=localhost user=survey password=survey dbname=survey port=5432 sslmode=disable"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", "3f8f2b1d9f0a4ce5a6d7e8c9b0a1f2e3d4c5b6a7"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "changeme"),
		AdminAltPath:  getenv("ADMIN_ALT_PATH", "a7f3kq9zx1"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "http://localhost:3000"),
		Port:          getenv("PORT", "8080"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
	}
}
