package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/config"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/cache"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/events"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/jobs"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func usage() {
	fmt.Println("Usage: jobs [heartbeat|replenish|report|cleanup|reminders|all|schedule]")
	fmt.Println("  heartbeat - write 'CRM is alive' line and ping the API")
	fmt.Println("  replenish - restock low-stock products")
	fmt.Println("  report    - weekly totals report")
	fmt.Println("  cleanup   - delete customers without recent orders")
	fmt.Println("  reminders - log reminders for recent orders")
	fmt.Println("  all       - run every job once")
	fmt.Println("  schedule  - run jobs on their intervals until stopped")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.LoadJobs(log)

	api := jobs.NewAPIClient(cfg.APIBaseURL, cfg.Timeout, cfg.RetryAttempts, log)
	if err := api.WithHealthProbe(cfg.GRPCHealthAddr); err != nil {
		log.Fatal("failed to set up grpc health probe", zap.Error(err))
	}
	defer api.Close()

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var emails jobs.EmailSender
	if cfg.EmailTopic != "" && len(cfg.KafkaBrokers) > 0 {
		producer := events.NewEmailProducer(cfg.KafkaBrokers, cfg.EmailTopic)
		defer producer.Close()
		emails = producer
	}

	schedule, err := jobs.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		log.Fatal("failed to load schedule", zap.Error(err))
	}

	all := buildJobs(cfg, api, redisClient, emails, schedule, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var locker jobs.Locker
	if redisClient != nil {
		locker = redisClient
	}

	switch cmd := os.Args[1]; cmd {
	case "schedule":
		scheduler := jobs.NewScheduler(schedule.Entries(all...), locker, log)
		scheduler.Start(ctx)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down jobs scheduler...")
		cancel()
		scheduler.Stop()
		log.Info("jobs scheduler stopped gracefully")

	case "all":
		entries := make([]jobs.Entry, 0, len(all))
		for _, j := range all {
			entries = append(entries, jobs.Entry{Job: j})
		}
		if err := jobs.NewScheduler(entries, locker, log).RunOnceNow(ctx); err != nil {
			log.Fatal("some jobs failed", zap.Error(err))
		}
		log.Info("all jobs completed successfully")

	default:
		job := find(all, cmd)
		if job == nil {
			usage()
			os.Exit(1)
		}
		log.Info("running job", zap.String("job", cmd))
		if err := job.Run(ctx); err != nil {
			log.Fatal("job failed", zap.String("job", cmd), zap.Error(err))
		}
		log.Info("job completed successfully", zap.String("job", cmd))
	}
}

func buildJobs(cfg *config.Jobs, api *jobs.APIClient, redisClient *cache.RedisClient, emails jobs.EmailSender, schedule jobs.Schedule, log *zap.Logger) []jobs.Job {
	var store jobs.HeartbeatStore
	if redisClient != nil {
		store = redisClient
	}
	// heartbeat в redis живёт три интервала
	hbTTL := 3 * time.Duration(schedule.Jobs["heartbeat"].Every)

	threshold, floor := int32(cfg.ReplenishThresh), int32(cfg.ReplenishFloor)

	return []jobs.Job{
		jobs.NewHeartbeat(api, jobs.NewSink(cfg.HeartbeatLog), store, hbTTL, log.Named("heartbeat")),
		jobs.NewReplenish(api, jobs.NewSink(cfg.ReplenishLog), dto.ReplenishRequest{Threshold: &threshold, Floor: &floor}, log.Named("replenish")),
		jobs.NewWeeklyReport(api, jobs.NewSink(cfg.ReportLog), log.Named("report")),
		jobs.NewCleanupCustomers(api, jobs.NewSink(cfg.CleanupLog), cfg.InactiveFor, log.Named("cleanup")),
		jobs.NewOrderReminders(api, jobs.NewSink(cfg.RemindersLog), cfg.ReminderWindow, emails, log.Named("reminders")),
	}
}

func find(all []jobs.Job, name string) jobs.Job {
	for _, j := range all {
		if j.Name() == name {
			return j
		}
	}
	return nil
}
