package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ai-consultant-bot/internal/bootstrap"
	"ai-consultant-bot/internal/config"
	"ai-consultant-bot/internal/server"
	"ai-consultant-bot/internal/tracer"
	"ai-consultant-bot/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, container.Logger)

	// 4. Start Background Services
	if err := container.AuditService.Consume(ctx); err != nil {
		log.Fatalf("[FATAL] Failed to start audit consumer: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("[ERROR] HTTP server stopped: %v", err)
			stop()
		}
	}()

	// 6. Receive Updates
	if cfg.Telegram.WebhookURL != "" {
		hook := strings.TrimRight(cfg.Telegram.WebhookURL, "/") + cfg.Telegram.WebhookPath
		if err := container.Telegram.SetWebhook(hook, cfg.Telegram.WebhookSecret); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	} else {
		if err := container.Telegram.DeleteWebhook(); err != nil {
			log.Printf("[WARN] %v", err)
		}
		go container.Telegram.Poll(ctx, container.UpdateHandler.Dispatch)
	}

	log.Printf("✅ Bot @%s is running", container.Telegram.Username())
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Printf("[WARN] HTTP shutdown: %v", err)
	}
	container.Close(shutdownCtx)
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("[WARN] Tracer shutdown: %v", err)
	}
}
