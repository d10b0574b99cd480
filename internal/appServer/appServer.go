package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/config"
	repository "github.com/markmanipula/QuickCourt-Backend/internal/database/postgres"
	rediscache "github.com/markmanipula/QuickCourt-Backend/internal/database/redis"
	"github.com/markmanipula/QuickCourt-Backend/internal/notify"
	"github.com/markmanipula/QuickCourt-Backend/internal/service"
	"github.com/markmanipula/QuickCourt-Backend/internal/transport"
	"github.com/markmanipula/QuickCourt-Backend/internal/worker"

	"github.com/markmanipula/QuickCourt-Backend/pkg/postgres"
	"github.com/markmanipula/QuickCourt-Backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)

	// Initialize event cache
	var eventCache repository.EventCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		eventCache = rediscache.NewEventCacheRepository(redisClient, cfg.Cache.EventTTL)
		logrus.Info("Event cache initialized")
	} else {
		logrus.Warn("Redis disabled, event cache is off")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize notifier
	var notifier notify.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := notify.NewRabbitMQ(notify.RabbitMQConfig{
			URL:       cfg.RabbitMQ.URL,
			QueueName: cfg.RabbitMQ.QueueName,
		})
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ: %v. Continuing without notifications...", err)
		} else {
			defer rabbit.Close()
			notifier = rabbit
			logrus.Info("RabbitMQ notifier initialized")

			if err := rabbit.Consume(ctx, notify.LogHandler); err != nil {
				logrus.Errorf("Failed to start notice consumer: %v", err)
			} else {
				logrus.Info("Notice consumer started")
			}
		}
	} else {
		logrus.Warn("RabbitMQ url not provided, notifications disabled")
	}

	// Initialize services
	eventService := service.NewEventService(eventRepo, eventCache, notifier)
	participationService := service.NewParticipationService(eventRepo, eventCache, notifier)

	// Initialize retention worker
	if cfg.Retention.Enabled {
		retentionWorker := worker.NewEventRetentionWorker(eventService, cfg.Retention.CleanupInterval, cfg.Retention.MaxAge)
		go retentionWorker.Start(ctx)
		logrus.Info("Retention worker started")
	}

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService)
	participationHandler := transport.NewParticipationHandler(participationService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, participationHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
