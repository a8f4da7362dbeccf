package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcelflow/api"
	"parcelflow/cmd"
	"parcelflow/internal/adapters/out/postgres/driverrepo"
	"parcelflow/internal/adapters/out/postgres/historyrepo"
	"parcelflow/internal/adapters/out/postgres/notificationrepo"
	"parcelflow/internal/adapters/out/postgres/parcelrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		logger.Error("Composition failed", "error", err)
		os.Exit(1)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()
	defer app.Hub().Close()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		KafkaHosts:            goDotEnvVariable("KAFKA_HOSTS"),
		KafkaParcelEventTopic: goDotEnvVariable("KAFKA_PARCEL_EVENT_TOPIC"),
		RedisAddr:             goDotEnvVariable("REDIS_ADDR"),
		RedisPassword:         goDotEnvVariable("REDIS_PASSWORD"),
		SMTPHost:              goDotEnvVariable("SMTP_HOST"),
		SMTPPort:              goDotEnvVariable("SMTP_PORT"),
		SMTPFrom:              goDotEnvVariable("SMTP_FROM"),
		SMTPUser:              goDotEnvVariable("SMTP_USER"),
		SMTPPassword:          goDotEnvVariable("SMTP_PASSWORD"),
		SystemActorID:         goDotEnvVariable("SYSTEM_ACTOR_ID"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the repositories map to conflicts.
	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err = gormDB.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&driverrepo.DriverDTO{},
		&historyrepo.HistoryEntryDTO{},
		&notificationrepo.NotificationDTO{},
	); err != nil {
		return nil, err
	}

	return gormDB, nil
}

func startWebServer(app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()

	server := app.CreateHTTPServer()
	server.RegisterRoutes(e)

	e.GET("/openapi.yml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.Document())
	})

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("Web server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Web server shutdown failed", "error", err)
	}
}
