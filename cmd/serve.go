package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/api"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exam API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (empty disables CORS)")
	serveCmd.Flags().Int64("max-upload-bytes", api.DefaultMaxUploadBytes, "Maximum document upload size")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	gen, err := newGenerator(cmd, cfg, st)
	if err != nil {
		return err
	}

	maxUpload, _ := cmd.Flags().GetInt64("max-upload-bytes")
	h := api.New(st.ExamRepo(), gen, api.Options{
		MaxItems:       cfg.MaxItems,
		MaxUploadBytes: maxUpload,
		AllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", cfg.Addr,
			"db_driver", cfg.DBDriver,
			"candidates", strings.Join(cfg.LLM.Candidates, ","),
			"max_items", cfg.MaxItems,
			"cors_origins", cfg.CORSOrigins,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
