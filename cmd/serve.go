package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/httpapi"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/logging"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serve the ask API over HTTP. Sessions are scoped by the X-Session-Id header and kept in memory only.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := httpapi.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		log, err := logging.New(cfg.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eventRepo := st.EventRepo()
		opts := httpapi.HandlerOptions{
			Sessions: memory.NewSessions(memory.DefaultCapacity),
			Events:   eventRepo,
			Log:      log,
		}

		// The server stays up without a provider so health checks and
		// session reads keep working; asks report the configuration error.
		provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
		if err != nil {
			log.Warnw("LLM provider not configured, asks will fail", "error", err)
			opts.ServiceErr = err
		} else {
			opts.Service = tutor.NewService(provider, tutor.DefaultConfig())
			log.Infow("LLM provider ready", "model", provider.ModelID())
		}

		h := httpapi.NewHandler(opts)
		srv := httpapi.NewServer(cfg, h, opts.Sessions, log)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SENSEI_ADDR, default :8080)")
}
