package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var AppConfig Config

type Config struct {
	ServerPort            string
	MongoURI              string
	MongoDBName           string
	JWTSecret             string
	PasswordBlacklistPath string
}

// Load reads the environment into AppConfig. A .env file is optional;
// variables already set in the environment take precedence over it.
func Load() error {
	_ = godotenv.Load()

	AppConfig = Config{
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		MongoURI:              os.Getenv("MONGO_URI"),
		MongoDBName:           getEnv("MONGO_DB_NAME", "project_management"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		PasswordBlacklistPath: os.Getenv("PASSWORD_BLACKLIST_PATH"),
	}

	if AppConfig.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is not set in the environment variables")
	}
	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set in the environment variables")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
