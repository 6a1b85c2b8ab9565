package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AlbatrossC/medllama2/internal/bot"
	"github.com/AlbatrossC/medllama2/internal/config"
	"github.com/AlbatrossC/medllama2/internal/httpapi"
	"github.com/AlbatrossC/medllama2/internal/httpapi/handlers"
	"github.com/AlbatrossC/medllama2/internal/llm"
	"github.com/AlbatrossC/medllama2/internal/messaging"
	"github.com/AlbatrossC/medllama2/internal/nlu"
	"github.com/AlbatrossC/medllama2/internal/schedule"
	"github.com/AlbatrossC/medllama2/internal/session"
	"github.com/AlbatrossC/medllama2/internal/translate"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	startupBanner(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("redis connect: %v", err)
	}
	cancel()
	sessions := session.NewStore(rdb)

	var schedules *schedule.Repo
	if cfg.DatabaseConfigured() {
		db, err := gorm.Open(gormpostgres.Open(cfg.PostgresDSN()), &gorm.Config{})
		if err != nil {
			log.Printf("database connect failed, schedule lookups disabled: %v", err)
		} else {
			schedules = schedule.NewRepo(db)
		}
	}

	translator, cloudDetect := buildTranslator(cfg)

	var messenger *messaging.TwilioClient
	if cfg.TwilioConfigured() {
		messenger = messaging.NewTwilioClient(cfg.TwilioSID, cfg.TwilioAuth, cfg.TwilioWhatsAppNumber)
	}

	svc := bot.NewService(bot.Deps{
		Classifier:  nlu.NewClient(cfg.RasaURL),
		Generator:   llm.NewClient(cfg.OllamaURL, cfg.OllamaModel),
		Schedules:   schedulesOrNil(schedules),
		Translator:  translator,
		Messenger:   messengerOrNil(messenger),
		CloudDetect: cloudDetect,
	})

	h := handlers.NewHandler(cfg, svc, sessions, schedules, translator)
	r := httpapi.NewRouter(h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("server listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// The *OrNil helpers keep bot.Deps fields nil interfaces when a capability
// is unconfigured (a typed nil pointer would defeat the nil checks).

func messengerOrNil(c *messaging.TwilioClient) bot.Deliverer {
	if c == nil {
		return nil
	}
	return c
}

func schedulesOrNil(r *schedule.Repo) bot.ScheduleFinder {
	if r == nil {
		return nil
	}
	return r
}

func buildTranslator(cfg config.Config) (translate.Translator, bool) {
	switch cfg.TranslatorProvider {
	case "google":
		return translate.NewGoogleTranslator(), false
	case "azure":
		if cfg.AzureTranslatorKey == "" {
			log.Printf("TRANSLATOR_PROVIDER=azure but AZURE_TRANSLATOR_KEY is empty, translation disabled")
			return nil, false
		}
		return translate.NewAzureTranslator(cfg.AzureTranslatorKey, cfg.AzureTranslatorEndpoint, cfg.AzureTranslatorRegion), true
	case "":
		return nil, false
	default:
		log.Printf("unknown TRANSLATOR_PROVIDER=%q, translation disabled", cfg.TranslatorProvider)
		return nil, false
	}
}

func startupBanner(cfg config.Config) {
	log.Printf("server start %s", time.Now().Format("2006-01-02 15:04:05"))
	log.Printf("ollama url: %s (model %s)", cfg.OllamaURL, cfg.OllamaModel)
	log.Printf("rasa url: %s", cfg.RasaURL)
	if cfg.TwilioConfigured() {
		log.Printf("twilio whatsapp: %s", cfg.TwilioWhatsAppNumber)
	} else {
		log.Printf("twilio whatsapp: not configured")
	}
	if cfg.DatabaseConfigured() {
		log.Printf("database: %s@%s:%s/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)
	} else {
		log.Printf("database: not configured")
	}
	if cfg.TranslatorProvider != "" {
		log.Printf("translator: %s", cfg.TranslatorProvider)
	} else {
		log.Printf("translator: not configured (heuristic language detection)")
	}
}
