package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"socialpulse/app"
	"socialpulse/internal"
	"socialpulse/internal/config"
	"socialpulse/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	store := app.NewStore(appConfig, logger)
	posts, signals := app.DataSources(appConfig, logger)
	service := app.NewDashboardService(store, appConfig.Data.SampleSize)

	server := ui.NewServer(service, store, logger)
	server.StartDatasetLoader(context.Background(), func(ctx context.Context) error {
		_, err := store.Load(ctx, posts, signals)
		return err
	})

	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("Profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				logger.Error("Profiling server failed: %v", err)
			}
		}()
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
