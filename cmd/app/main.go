package main

import (
	"os"
	"os/signal"
	"syscall"

	"PhotoAnalyzer/internal/config"
	"PhotoAnalyzer/pkg/log"
)

func main() {
	logger := log.NewLogger()
	config.LoadEnv(logger)

	appConfig := config.LoadAppConfig()

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithAppConfig(appConfig),
		config.WithValidator(config.NewValidator()),
		config.WithDatabase(),
		config.WithRedisServer(),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithRekognitionClient(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.WithField("port", appConfig.Port).Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
