package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/reply"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		roadmap, _ := cmd.Flags().GetBool("roadmap")
		asJSON, _ := cmd.Flags().GetBool("json")

		question := strings.Join(args, " ")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := llm.WithPurpose(cmd.Context(), "cli")

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return err
		}
		svc := tutor.NewService(provider, tutor.DefaultConfig())

		// One-shot asks get a fresh, empty conversation window.
		window := memory.NewWindow(memory.DefaultCapacity)

		start := time.Now()
		ans, err := svc.Ask(ctx, window, tutor.AskRequest{
			Message:     question,
			Mode:        mode,
			WantRoadmap: roadmap,
		})
		if err != nil {
			return err
		}

		_ = st.EventRepo().AppendAsk(ctx, store.AskEventData{
			SessionID:    uuid.NewString(),
			Mode:         mode,
			WantRoadmap:  roadmap,
			Degraded:     ans.Degraded,
			RoadmapSteps: len(ans.Roadmap),
			LatencyMs:    time.Since(start).Milliseconds(),
		})

		if asJSON {
			return printAnswerJSON(ans)
		}
		printAnswer(ans)
		return nil
	},
}

func printAnswer(ans *tutor.Answer) {
	if ans.Summary != "" {
		fmt.Println(ans.Summary)
		fmt.Println()
	}
	fmt.Println(ans.Explanation)

	if len(ans.Roadmap) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Roadmap")
	fmt.Println(strings.Repeat("─", 60))
	for i, step := range ans.Roadmap {
		head := fmt.Sprintf("%d. %s", i+1, step.StepName)
		if step.TimeEstimate != "" {
			head += fmt.Sprintf(" (%s)", step.TimeEstimate)
		}
		fmt.Println(head)
		if step.Action != "" {
			fmt.Printf("   %s\n", step.Action)
		}
		for _, res := range step.Resources {
			line := "   • " + res.Title
			if res.URL != "" {
				line += "  " + res.URL
			}
			fmt.Println(line)
		}
		if step.Exercise != "" {
			fmt.Printf("   Try: %s\n", step.Exercise)
		}
	}
}

// printAnswerJSON emits the same shape the HTTP API returns.
func printAnswerJSON(ans *tutor.Answer) error {
	out := reply.BotReply{
		Summary:     ans.Summary,
		Explanation: ans.Explanation,
		Roadmap:     ans.Roadmap,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	askCmd.Flags().StringP("mode", "m", "normal", "Answer depth: eli5, normal, or expert")
	askCmd.Flags().BoolP("roadmap", "r", false, "Request a learning roadmap")
	askCmd.Flags().Bool("json", false, "Print the raw JSON answer")
}
