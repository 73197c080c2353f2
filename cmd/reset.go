package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recorded usage data",
	Long:  "Deletes the local database holding ask and LLM call records.\nConversation memory lives only in process and is not affected.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Printf("No database found at %s. Nothing to reset.\n", dbPath)
			return nil
		}

		if !resetForce {
			fmt.Printf("This deletes %s and all recorded usage. Continue? [y/N]: ", dbPath)
			reader := bufio.NewReader(os.Stdin)
			answer, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading confirmation: %w", err)
			}
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("removing database: %w", err)
		}
		// SQLite sidecar files may linger after an unclean shutdown.
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")

		fmt.Println("Done. A fresh database will be created on next run.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
}
