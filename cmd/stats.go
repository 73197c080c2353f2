package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question statistics by mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().AskStatsByMode(ctx)
		if err != nil {
			return fmt.Errorf("query ask stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No questions recorded yet.")
			return nil
		}

		fmt.Println("Questions by Mode")
		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-10s  %8s  %10s  %10s  %8s\n",
			"Mode", "Asks", "Degraded", "Roadmaps", "Avg Ms")
		fmt.Println(strings.Repeat("─", 64))

		var totalAsks, totalDegraded, totalRoadmaps int
		for _, st := range stats {
			fmt.Printf("%-10s  %8d  %10d  %10d  %8d\n",
				st.Mode, st.Count, st.Degraded, st.WithRoadmap, st.AvgLatencyMs)
			totalAsks += st.Count
			totalDegraded += st.Degraded
			totalRoadmaps += st.WithRoadmap
		}

		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-10s  %8d  %10d  %10d\n",
			"TOTAL", totalAsks, totalDegraded, totalRoadmaps)

		if totalAsks > 0 && totalDegraded > 0 {
			pct := float64(totalDegraded) / float64(totalAsks) * 100
			fmt.Printf("\n%.1f%% of replies fell back to raw text.\n", pct)
		}

		return nil
	},
}
