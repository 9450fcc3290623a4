package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pharmaduty-go/internal/app"
	"pharmaduty-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()

	rootCmd := &cobra.Command{
		Use:           "pharmaduty",
		Short:         "Pharmacy duty schedule registry API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}
	rootCmd.AddCommand(serveCmd(log))
	rootCmd.AddCommand(migrateCmd(log))
	rootCmd.AddCommand(seedCmd(log))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}

func serveCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), log)
		},
	}
}

func migrateCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(log)
			if err != nil {
				return err
			}
			defer application.Close()

			_, err = application.Migrate()
			return err
		},
	}
}

func seedCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert reference neighborhoods and the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(log)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Seed(cmd.Context())
		},
	}
}

func serve(parent context.Context, log logger.Logger) error {
	log.Info("app: starting")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(log)
	if err != nil {
		return err
	}

	if application.Config().DB.AutoMigrate {
		if _, err := application.Migrate(); err != nil {
			_ = application.Close()
			return err
		}
	}
	if err := application.Seed(ctx); err != nil {
		_ = application.Close()
		return err
	}
	if err := application.Start(ctx); err != nil {
		_ = application.Close()
		return err
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info("app: stopped")
	}
	return runErr
}
