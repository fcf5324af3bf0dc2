package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"harmona-engine/internal/config"
	"harmona-engine/internal/service"
	logpkg "harmona-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "harmona-engine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting harmona-engine",
		zap.String("data_dir", cfg.Engine.DataDir),
		zap.String("output_dir", cfg.Engine.OutputDir),
	)

	svc, err := service.NewHarmonizerService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create harmonizer service", zap.Error(err))
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	results, err := svc.Run(ctx)
	if err != nil {
		log.Fatal("Run failed", zap.Error(err))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Error("Run completed with failures", zap.Int("failed", failed))
		os.Exit(1)
	}

	log.Info("Run completed", zap.Int("patients", len(results)))
}
