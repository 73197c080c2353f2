package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/sensei/internal/app"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts := app.Options{
		EventRepo: eventRepo,
	}

	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Questions will be unavailable until a key is set.")
		opts.TutorErr = err
	} else {
		opts.Tutor = tutor.NewService(provider, tutor.DefaultConfig())
	}

	return app.Run(opts)
}
