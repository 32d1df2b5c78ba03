package main

import (
	"cargo-tracking-service/internal/api"
	"cargo-tracking-service/internal/config"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/otel"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// main is the application composition root. It picks concrete adapters from
// configuration, starts the HTTP server and the message consumers, and
// shuts everything down on SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, config.Get("OTEL_SERVICE_NAME", "cargo-tracking-service"), cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "err", err)
		}
	}()

	app, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	router := api.NewRouter(api.Deps{
		Booking:   app.booking,
		Tracking:  app.tracking,
		Reports:   app.reports,
		Locations: app.booking,
		Health:    app.health,
		Logger:    log,
	})

	// Write timeout leaves room for an uncached call to the routing service.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "storage", app.storage, "messaging", app.messaging)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	for _, worker := range app.workers {
		g.Go(func() error { return worker(gctx) })
	}

	return g.Wait()
}
