// Package config resolves runtime settings from flags, TALAS_* environment
// variables and an optional talas.yaml file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/examgen"
	"github.com/talas-app/talas/internal/llm"
	"github.com/talas-app/talas/internal/store"
)

// EnvPrefix is prepended to every environment variable, e.g. TALAS_DB.
const EnvPrefix = "TALAS"

// Config is the resolved application configuration.
type Config struct {
	DBPath   string
	DBDriver store.Driver

	LLM llm.Config

	MaxItems       int
	MaxSourceChars int

	LogLevel  string
	LogFormat string

	Addr        string
	CORSOrigins []string
}

// RegisterFlags adds the shared persistent flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("db", "", "Database path or DSN (default: $XDG_DATA_HOME/talas/talas.db)")
	fs.String("db-driver", string(store.DriverSQLite), "Database driver (sqlite, postgres)")
	fs.StringSlice("llm-candidates", llm.DefaultCandidates, "Ordered provider:model fallback list")
	fs.String("gemini-api-key", "", "Gemini API key (or GEMINI_API_KEY)")
	fs.String("openai-api-key", "", "OpenAI API key (or OPENAI_API_KEY)")
	fs.String("openai-base-url", "", "OpenAI-compatible API base URL")
	fs.String("anthropic-api-key", "", "Anthropic API key (or ANTHROPIC_API_KEY)")
	fs.String("openrouter-api-key", "", "OpenRouter API key (or OPENROUTER_API_KEY)")
	fs.Duration("candidate-timeout", 60*time.Second, "Deadline for a single LLM candidate call")
	fs.Int("max-items", exam.DefaultMaxItems, "Maximum questions per exam")
	fs.Int("max-source-chars", examgen.DefaultMaxSourceChars, "Characters of document text sent to the model")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "text", "Log format (text, json)")
}

// NewViper binds fs and the environment to a fresh viper instance and reads
// talas.yaml from the working directory or $HOME/.config/talas if present.
func NewViper(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(fs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("talas")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/talas")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	driver, err := store.ParseDriver(v.GetString("db-driver"))
	if err != nil {
		return Config{}, err
	}

	llmCfg := llm.DefaultConfig()
	if cands := splitList(v.GetStringSlice("llm-candidates")); len(cands) > 0 {
		llmCfg.Candidates = cands
	}
	llmCfg.Gemini.APIKey = v.GetString("gemini-api-key")
	llmCfg.OpenAI.APIKey = v.GetString("openai-api-key")
	llmCfg.OpenAI.BaseURL = v.GetString("openai-base-url")
	llmCfg.Anthropic.APIKey = v.GetString("anthropic-api-key")
	llmCfg.OpenRouter.APIKey = v.GetString("openrouter-api-key")
	if d := v.GetDuration("candidate-timeout"); d > 0 {
		llmCfg.Timeout = d
	}
	llmCfg.DiscoverKeys()
	if err := llmCfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("llm config: %w", err)
	}

	cfg := Config{
		DBPath:         v.GetString("db"),
		DBDriver:       driver,
		LLM:            llmCfg,
		MaxItems:       v.GetInt("max-items"),
		MaxSourceChars: v.GetInt("max-source-chars"),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      v.GetString("log-format"),
		Addr:           v.GetString("addr"),
		CORSOrigins:    splitList(v.GetStringSlice("cors-origins")),
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = exam.DefaultMaxItems
	}
	if cfg.MaxSourceChars <= 0 {
		cfg.MaxSourceChars = examgen.DefaultMaxSourceChars
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}

// splitList accepts both repeated flags and a single comma separated
// environment value.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, c := range strings.Split(r, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// ResolveDBPath returns the configured database location, falling back to
// the default sqlite file. Directories for sqlite files are created.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBDriver == store.DriverPostgres {
		if c.DBPath == "" {
			return "", fmt.Errorf("--db must hold a DSN when --db-driver is postgres")
		}
		return c.DBPath, nil
	}
	if c.DBPath != "" {
		return c.DBPath, store.EnsureDir(c.DBPath)
	}
	return store.DefaultDBPath()
}

// Logger builds the slog logger selected by LogLevel and LogFormat.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
