// hubclient is a demo session client: it opens a push channel against a
// running hub, mirrors the notification and job state, and logs a status
// line until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/channel"
	"eventhub/internal/config"
	"eventhub/internal/jobs"
	"eventhub/internal/logging"
	"eventhub/internal/notify"
	"eventhub/internal/rest"
	"eventhub/internal/session"
	"eventhub/internal/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	userID := os.Getenv("HUB_USER_ID")
	if userID == "" {
		userID = "demo-user"
	}

	api := rest.NewClient(cfg, logger)
	store := notify.NewStore(cfg, api, logger)
	registry := jobs.NewRegistry(cfg, logger)
	manager := channel.NewManager(cfg, logger,
		transport.NewWebSocketDialer(cfg.HubBaseURL, cfg.ConnectTimeout),
		transport.NewSSEDialer(cfg.HubBaseURL, cfg.ConnectTimeout),
	)
	controller := session.NewController(cfg, store, registry, manager, logger)

	if err := controller.Start(ctx, userID); err != nil {
		logger.Fatal("session start failed", zap.String("user_id", userID), zap.Error(err))
	}
	defer controller.Stop()

	logger.Info("hub client running",
		zap.String("user_id", userID),
		zap.String("hub", cfg.HubBaseURL),
	)

	status := time.NewTicker(10 * time.Second)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-status.C:
			logger.Info("session status",
				zap.Int("notifications", len(store.Notifications())),
				zap.Int("unread", store.UnreadCount()),
				zap.Int("active_jobs", len(registry.Jobs())),
			)
		}
	}
}
