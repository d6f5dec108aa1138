package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	err = run(service, sigChan)
	if closeErr := service.Close(); closeErr != nil {
		logger.Error.Printf("Failed to close service: %v", closeErr)
	}
	if err != nil {
		logger.Error.Fatalf("hrdesk server failed: %v", err)
	}
}

// run serves the API until stop fires or the listener fails.
func run(service *app.Service, stop <-chan os.Signal) error {
	mux := http.NewServeMux()
	mux.Handle("/api/", handlers.NewRouter(service))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    service.Config.Server.Port,
		Handler: mux,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info.Printf("Starting hrdesk server on %s", service.Config.Server.Port)
		logger.Debug.Printf("Database: %s", app.DetectDBType(service.Config.Database.DSN))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	logger.Info.Println("Shutting down hrdesk server...")
	ctx, cancel := context.WithTimeout(context.Background(), service.Config.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
