package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	SessionSecret string

	// Inference backend
	OllamaURL   string
	OllamaModel string

	// Intent classifier
	RasaURL string

	// Schedule datastore (optional; empty host leaves lookups unconfigured)
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Messaging delivery (optional)
	TwilioSID            string
	TwilioAuth           string
	TwilioWhatsAppNumber string

	// Translation (optional; "google" or "azure", empty disables translation
	// and keeps the heuristic detector)
	TranslatorProvider      string
	AzureTranslatorKey      string
	AzureTranslatorEndpoint string
	AzureTranslatorRegion   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() Config {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://127.0.0.1:11434/api/generate"
	}

	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "medllama2"
	}

	rasaURL := os.Getenv("RASA_URL")
	if rasaURL == "" {
		rasaURL = "http://localhost:5005/model/parse"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "default-secret"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	azureEndpoint := os.Getenv("AZURE_TRANSLATOR_ENDPOINT")
	if azureEndpoint == "" {
		azureEndpoint = "https://api.cognitive.microsofttranslator.com"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	return Config{
		Port:          port,
		SessionSecret: secret,

		OllamaURL:   ollamaURL,
		OllamaModel: ollamaModel,

		RasaURL: rasaURL,

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBName:     os.Getenv("DB_NAME"),

		TwilioSID:            os.Getenv("TWILIO_SID"),
		TwilioAuth:           os.Getenv("TWILIO_AUTH"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		TranslatorProvider:      os.Getenv("TRANSLATOR_PROVIDER"),
		AzureTranslatorKey:      os.Getenv("AZURE_TRANSLATOR_KEY"),
		AzureTranslatorEndpoint: azureEndpoint,
		AzureTranslatorRegion:   os.Getenv("AZURE_TRANSLATOR_REGION"),

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}
}

func (c Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBName != ""
}

func (c Config) TwilioConfigured() bool {
	return c.TwilioSID != "" && c.TwilioAuth != "" && c.TwilioWhatsAppNumber != ""
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
