package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetKey string

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all ticket state on the server (demo use)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Reset(cmd.Context(), resetKey); err != nil {
			return err
		}
		fmt.Println("Server state reset.")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server runtime statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := api.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Uptime: %.0fs\n", snap.UptimeSeconds)
		if snap.Retrieval != nil {
			fmt.Printf("retrieval:    %d calls, avg %.0fms\n", snap.Retrieval.Count, snap.Retrieval.AvgTimeMs)
		}
		if snap.Embedding != nil {
			fmt.Printf("embedding:    %d calls, avg %.0fms\n", snap.Embedding.Count, snap.Embedding.AvgTimeMs)
		}
		if snap.DBSearch != nil {
			fmt.Printf("db_search:    %d calls, avg %.0fms\n", snap.DBSearch.Count, snap.DBSearch.AvgTimeMs)
		}
		if snap.LLMGenerate != nil {
			fmt.Printf("llm_generate: %d calls, avg %.0fms\n", snap.LLMGenerate.Count, snap.LLMGenerate.AvgTimeMs)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVar(&resetKey, "key", "", "admin key")
	_ = resetCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
}
