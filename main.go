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
	"time"

	"github.com/gin-gonic/gin"

	"task-board-api/config"
	"task-board-api/handlers"
	"task-board-api/logging"
	"task-board-api/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "task-board-api:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(flag.NewFlagSet("task-board-api", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogOptions())
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Seed > 0 {
		seeder, ok := st.(store.Seeder)
		if !ok {
			return fmt.Errorf("driver %q cannot seed", cfg.Store.Driver)
		}
		if err := seeder.Seed(ctx, cfg.Seed); err != nil {
			return err
		}
	}

	router := handlers.NewRouter(handlers.Options{
		Store:    st,
		Updater:  store.NewUpdater(st, logger),
		Logger:   logger,
		BasePath: cfg.BasePath,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "driver", cfg.Store.Driver, "base_path", cfg.BasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
