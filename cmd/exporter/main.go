package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/app"
	"github.com/shrimpsizemoose/hrdesk/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var once = flag.Bool("once", false, "Export every sheet immediately and exit")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	ctx := context.Background()
	exporter, err := export.NewGSheetExporter(ctx, service)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize Google Sheets exporter: %v", err)
	}

	if *once {
		for i := 0; i < exporter.Targets(); i++ {
			if err := exporter.Export(ctx, i); err != nil {
				logger.Error.Printf("Export to sheet %s failed: %v", service.Config.GSheet[i].SheetID, err)
			}
		}
		return
	}

	exporter.Start()
	defer exporter.Stop()
	logger.Info.Printf("Exporting attendance to %d sheet(s)", len(service.Config.GSheet))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Exporter stopped")
}
