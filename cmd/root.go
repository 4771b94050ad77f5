package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cobra"

	"github.com/talas-app/talas/internal/app"
	"github.com/talas-app/talas/internal/config"
	"github.com/talas-app/talas/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "talas",
	Short: "Turn study material into practice exams",
	Long: "Talas reads a PDF or text document, asks an LLM for a practice exam " +
		"and keeps a history of your attempts.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		_, err = runUI(app.Options{Repo: st.ExamRepo()})
		return err
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration for cmd and installs the logger
// it selects.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.NewViper(cmd.Flags()))
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(cfg.Logger(os.Stderr))
	return cfg, nil
}

// openStore opens the configured database.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	dsn, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.OpenDriver(ctx, cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	slog.Debug("opened store", "driver", cfg.DBDriver, "location", dsnLocation(cfg.DBDriver, dsn))
	return st, nil
}

// runUI runs the terminal UI with logging discarded, since log output would
// corrupt the full-screen view. The previous logger is restored afterwards.
func runUI(opts app.Options) (*app.Outcome, error) {
	logger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(logger)
	return uiRunner(opts)
}

var uiRunner = app.Run

// dsnLocation names where a DSN points without its credentials: host and
// port for Postgres, the file path for SQLite.
func dsnLocation(driver store.Driver, dsn string) string {
	if driver == store.DriverPostgres {
		pc, err := pgconn.ParseConfig(dsn)
		if err != nil {
			return "unparsable postgres DSN"
		}
		return net.JoinHostPort(pc.Host, strconv.Itoa(int(pc.Port)))
	}
	path, _, _ := strings.Cut(dsn, "?")
	return strings.TrimPrefix(path, "file:")
}
