package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/martinemde/tandem/internal/config"
	"github.com/martinemde/tandem/internal/httpapi"
	"github.com/martinemde/tandem/internal/oracle"
	"github.com/martinemde/tandem/internal/screenshot"
	"github.com/martinemde/tandem/internal/store"
	"github.com/martinemde/tandem/internal/team"
	"github.com/martinemde/tandem/internal/tools"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tandem",
	})

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	client := buildOracleClient(cfg, logger)
	defer client.Close()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	registry := tools.NewRegistry()
	tools.RegisterCore(registry, tools.ExecConfig{
		DefaultTimeoutMs: cfg.Run.DefaultCmdTimeoutMs,
		SlowTimeoutMs:    cfg.Run.SlowCmdTimeoutMs,
	})

	executor := team.NewExecutor(cfg.Sentinels, registry, cfg.Run.MaxToolRounds)
	committer := team.NewAutoCommitter(client, cfg.Oracle.Model, logger)
	pipeline := team.NewPipeline(cfg, client, executor, st, committer, logger)
	states := team.NewStateStore(logger)
	shots := screenshot.New(cfg.ScreenshotURL)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.New(cfg, st, pipeline, states, shots, logger).Handler(),
	}

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// buildOracleClient prefers explicit config credentials, falling back to
// whatever providers the environment supplies.
func buildOracleClient(cfg config.Config, logger *log.Logger) *oracle.Client {
	if cfg.Oracle.APIKey != "" {
		adapter, err := oracle.NewGollmAdapter(cfg.Oracle.Provider, cfg.Oracle.APIKey)
		if err == nil {
			return oracle.NewClient(
				oracle.WithProvider(cfg.Oracle.Provider, adapter),
				oracle.WithDefaultProvider(cfg.Oracle.Provider),
				oracle.WithMiddleware(oracle.RetryMiddleware(oracle.DefaultRetryPolicy())),
			)
		}
		logger.Warn("configured oracle credentials rejected, trying environment", "err", err)
	}
	return oracle.NewClientFromEnv()
}
