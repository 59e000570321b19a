package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"servicedesk/cmd"
	"servicedesk/internal/adapters/out/kafka"
	"servicedesk/internal/adapters/out/metrics"
	"servicedesk/internal/adapters/out/postgres"
	redisadapter "servicedesk/internal/adapters/out/redis"
	"servicedesk/internal/core/ports"
	"servicedesk/internal/generated/servers"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var locker ports.OrderLocker
	if configs.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: configs.RedisAddr})
		defer redisClient.Close()
		locker = redisadapter.NewOrderLocker(redisClient, redisadapter.DefaultLockTTL)
	}

	var publisher ports.StatusChangePublisher
	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		kafkaPublisher := kafka.NewStatusChangePublisher(brokers, configs.KafkaOrderChangedTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	appMetrics := metrics.New()

	app := cmd.NewCompositionRoot(configs, gormDB, locker, logger)

	jobManager := app.CreateJobManager(appMetrics)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := newWebServer(&app, publisher, appMetrics)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		log.Errorf("server stopped with error: %v", err)
	}
	logger.Info("service desk stopped")
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded, using process environment: %v", err)
	}

	config := cmd.Config{
		HTTPPort:               os.Getenv("HTTP_PORT"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              os.Getenv("DB_SSLMODE"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		StaleThresholdHours:    intVariable("STALE_THRESHOLD_HOURS"),
		StaleScanSchedule:      os.Getenv("STALE_SCAN_SCHEDULE"),
		RetentionDays:          intVariable("RETENTION_DAYS"),
		RetentionSchedule:      os.Getenv("RETENTION_SCHEDULE"),
		AnalyticsBatchSize:     intVariable("ANALYTICS_BATCH_SIZE"),
	}
	return config.WithDefaults()
}

// intVariable reads an integer variable; unset means zero, which selects the
// default.
func intVariable(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, raw)
	}
	return v
}

func newWebServer(app *cmd.CompositionRoot, publisher ports.StatusChangePublisher, appMetrics *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))
	e.GET("/api/v1/openapi.json", func(c echo.Context) error {
		spec, err := servers.GetSwagger()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, servers.Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to load API document",
			})
		}
		return c.JSON(http.StatusOK, spec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, app.CreateHTTPServer(publisher, appMetrics))
	return e
}
