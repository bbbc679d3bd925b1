package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quizpulse-service/internal/config"
	transport "quizpulse-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides config and PORT)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rt.Close(closeCtx); err != nil {
			rt.logger.Error("shutdown cleanup failed", "error", err)
		}
	}()

	if err := rt.service.SeedReferenceData(ctx); err != nil {
		return err
	}
	if rt.consumer != nil {
		if _, err := rt.consumer.Start(ctx); err != nil {
			return err
		}
	}

	auth, err := transport.NewAdminAuth(
		rt.cfg.Admin.PasswordHash,
		rt.cfg.Admin.Password,
		rt.cfg.Admin.JWTSecret,
		config.TTLDuration(rt.cfg.Admin.TokenTTL, 12*time.Hour),
	)
	if err != nil {
		return err
	}
	handler := transport.NewHandler(rt.service, auth, rt.logger)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = rt.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		rt.logger.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		rt.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
