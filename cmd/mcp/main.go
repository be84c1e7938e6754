package main

import (
	"context"
	"os"

	"github.com/Deglobeal/alx-backend-graphql-crm/config"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/database"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/events"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/logger"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/mcptools"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// stdout занят протоколом MCP, логи zap идут в stderr.
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	bus, err := events.New(events.Config{
		Kind:         cfg.Events.Bus,
		KafkaBrokers: cfg.Events.KafkaBrokers,
		KafkaTopic:   cfg.Events.KafkaTopic,
		RabbitURL:    cfg.Events.RabbitURL,
		RabbitExch:   cfg.Events.RabbitExchange,
	}, log)
	if err != nil {
		log.Fatal("failed to create event bus", zap.Error(err))
	}
	defer bus.Close()

	svcs := service.New(repository.New(db), bus, log)
	srv := mcptools.NewServer(svcs, log)

	log.Info("Starting MCP server on stdio", zap.String("name", mcptools.ServerName))
	if err := srv.Serve(context.Background()); err != nil {
		log.Error("MCP server stopped", zap.Error(err))
	}
}
