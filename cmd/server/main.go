package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abinashpathak707-web/kishore-general-store/internal/assistant"
	"github.com/abinashpathak707-web/kishore-general-store/internal/config"
	"github.com/abinashpathak707-web/kishore-general-store/internal/db"
	"github.com/abinashpathak707-web/kishore-general-store/internal/handler"
	"github.com/abinashpathak707-web/kishore-general-store/internal/repository"
	"github.com/abinashpathak707-web/kishore-general-store/internal/server"
	"github.com/abinashpathak707-web/kishore-general-store/internal/service"
	"github.com/abinashpathak707-web/kishore-general-store/internal/share"
	"github.com/abinashpathak707-web/kishore-general-store/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger.Info("starting", "env", cfg.Env, "store", cfg.StoreName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Bootstrap(ctx); err != nil {
		logger.Error("failed to bootstrap database", "err", err)
		os.Exit(1)
	}

	stateRepo := repository.StateRepository{DB: pg}
	st := store.New(stateRepo, logger)
	if err := st.Load(ctx); err != nil {
		logger.Error("failed to load state", "err", err)
		os.Exit(1)
	}

	shareBuilder := share.Builder{StoreName: cfg.StoreName, Region: cfg.PhoneRegion}

	gemini := assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	bridge := assistant.NewBridge(gemini, assistant.UnavailableTranscriber{}, logger)

	if cfg.ReminderEnabled {
		reminder := service.DuesReminderService{Store: st, Share: shareBuilder, Logger: logger}
		sched, err := reminder.Start(cfg.ReminderHour)
		if err != nil {
			logger.Error("failed to start dues reminder", "err", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	server.RegisterMetrics()

	healthHandler := handler.HealthHandler{DB: pg}
	productHandler := handler.ProductHandler{Store: st}
	customerHandler := handler.CustomerHandler{Store: st, Share: shareBuilder}
	billHandler := handler.BillHandler{Store: st, Share: shareBuilder}
	dashboardHandler := handler.DashboardHandler{Store: st}
	assistantHandler := handler.AssistantHandler{Bridge: bridge}
	settingsHandler := handler.SettingsHandler{Store: st}

	router := server.NewRouter(logger, healthHandler, productHandler, customerHandler, billHandler, dashboardHandler, assistantHandler, settingsHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
