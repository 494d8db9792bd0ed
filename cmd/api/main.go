package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/bootstrap"
	"github.com/cdma-ap/cmsnr-directory/internal/config"
	appHTTP "github.com/cdma-ap/cmsnr-directory/internal/handler/http"
	"github.com/cdma-ap/cmsnr-directory/internal/handler/http/response"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/cron"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := bootstrap.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	response.SetDevelopment(cfg.IsDevelopment())

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		slog.Error("Error connecting to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	services := bootstrap.NewServices(cfg, stores)

	authHandler := appHTTP.NewAuthHandler(services.Auth)
	directoryHandler := appHTTP.NewDirectoryHandler(services.Directory)
	birthdayHandler := appHTTP.NewBirthdayHandler(services.Birthday)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		services.JWT,
		authHandler,
		directoryHandler,
		birthdayHandler,
	)

	var scheduler *cron.Scheduler
	if cfg.Birthday.CronEnabled {
		scheduler = cron.NewScheduler()
		cron.NewBirthdayJobs(services.Birthday, cfg.Birthday.CronHour, cfg.Location()).RegisterJobs(scheduler)
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+srv.Addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
