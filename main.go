package main

import (
	"context"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"autopart/internal/assist"
	db "autopart/internal/database"
	"autopart/internal/handlers"
	"autopart/internal/session"
)

type config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	SearchModel     string        `envconfig:"SEARCH_MODEL"`
	VisionModel     string        `envconfig:"VISION_MODEL"`
	ChatModel       string        `envconfig:"CHAT_MODEL"`
	SettlementDelay time.Duration `envconfig:"SETTLEMENT_DELAY" default:"2s"`
}

func main() {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.WithError(err).Fatal("failed to read configuration")
	}

	DB, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog store")
	}
	if err := db.Migrate(DB); err != nil {
		log.WithError(err).Fatal("failed to migrate catalog store")
	}
	if err := db.SeedCatalog(DB); err != nil {
		log.WithError(err).Fatal("failed to seed catalog")
	}

	products, err := db.GetProducts(DB)
	if err != nil {
		log.WithError(err).Fatal("failed to load catalog")
	}
	log.WithField("products", len(products)).Info("catalog loaded")

	assistant, err := assist.New(context.Background(), assist.Config{
		APIKey:      cfg.GeminiAPIKey,
		SearchModel: cfg.SearchModel,
		VisionModel: cfg.VisionModel,
		ChatModel:   cfg.ChatModel,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize AI assist adapter")
	}

	sessions := session.NewRegistry(cfg.SettlementDelay)
	srv := handlers.New(DB, products, sessions, assistant, log)

	log.WithField("port", cfg.Port).Info("storefront listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, srv.Routes()))
}
