package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"ramen-storefront/config"
	"ramen-storefront/db"
	"ramen-storefront/server"
	"ramen-storefront/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	defer pool.Close()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := applyMigrations(ctx, pool, true); err != nil {
			log.WithError(err).Fatal("migrate")
		}
		return
	}
	// Optional auto-migration for production and fresh databases.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(ctx, pool, false); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	var notifier *services.OrderNotifier
	if cfg.Telegram.Token != "" {
		notifier, err = services.NewOrderNotifier(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
		if err != nil {
			log.WithError(err).Warn("order notifier disabled")
			notifier = nil
		} else {
			log.Info("order notifier enabled")
		}
	}

	// Cart line identity: one line per menu item by default, matching the
	// storefront UI. Set CART_LINES=customization to keep distinct lines per
	// variation/add-on combination.
	mode := services.KeyByItem
	if strings.EqualFold(os.Getenv("CART_LINES"), "customization") {
		mode = services.KeyByCustomization
	}

	srv := server.New(
		log,
		services.NewCatalogStore(pool),
		services.NewSettingsStore(pool),
		&services.DiskUploader{Dir: cfg.Upload.Dir, BaseURL: cfg.Upload.BaseURL},
		notifier,
		cfg.Messaging,
		mode,
	)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-done
	log.Info("shutting down...")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
