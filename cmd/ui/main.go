package main

import (
	"context"
	"log"

	"socialpulse/app"
	"socialpulse/internal"
	"socialpulse/internal/config"
	"socialpulse/ui"

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

	store := app.NewStore(appConfig, logger)
	posts, signals := app.DataSources(appConfig, logger)

	uiApp, err := ui.NewApp(ui.Config{Port: appConfig.Server.UIPort}, app.NewDashboardService(store, appConfig.Data.SampleSize), store, logger)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	go func() {
		if _, err := store.Load(context.Background(), posts, signals); err != nil {
			logger.Error("Dataset load failed: %v", err)
		}
	}()

	log.Printf("Starting SocialPulse UI on http://localhost:%s", appConfig.Server.UIPort)
	log.Fatal(uiApp.Start())
}
