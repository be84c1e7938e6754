package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/config"
	_ "github.com/Deglobeal/alx-backend-graphql-crm/docs"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/cache"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/database"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/events"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/grpchealth"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/logger"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/migrate"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/repository"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/router"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title CRM API
// @Version 1.0
// @Description API для клиентов, товаров и заказов CRM
// @BasePath /
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	if cfg.AutoMigrate {
		if err := migrate.MigrateCRMDB(context.Background(), db, log, migrate.DefaultMigrateOptions()); err != nil {
			log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
		}
	}

	repo := repository.New(db)

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

	// redis здесь нужен только для проверки доступности: агрегаты не кэшируются
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		if hb, err := redisClient.LastHeartbeat(context.Background()); err == nil && !hb.IsZero() {
			log.Info("Последний heartbeat задач", zap.Time("at", hb))
		}
	}

	svcs := service.New(repo, bus, log)
	r := router.Router(svcs, repo, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var healthSrv *grpchealth.Server
	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			log.Fatal("failed to listen", zap.Error(err))
		}
		healthSrv = grpchealth.New(repo, log)
		go healthSrv.Watch(ctx, 10*time.Second)
		go func() {
			log.Info("Starting gRPC health server", zap.String("addr", cfg.GRPCHealthAddr))
			if err := healthSrv.Serve(lis); err != nil {
				log.Error("gRPC health server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if healthSrv != nil {
		healthSrv.GracefulStop()
	}
	log.Info("HTTP server stopped gracefully")
}
