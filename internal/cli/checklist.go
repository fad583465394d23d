package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	checkIndex   int
	uncheckIndex int
	itemNotes    string
)

var checklistCmd = &cobra.Command{
	Use:   "checklist <ticket-id>",
	Short: "Show a ticket's repair checklist (generates it on first access)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticketID := args[0]

		if checkIndex >= 0 || uncheckIndex >= 0 {
			index, completed := checkIndex, true
			if uncheckIndex >= 0 {
				index, completed = uncheckIndex, false
			}
			var notes *string
			if cmd.Flags().Changed("notes") {
				notes = &itemNotes
			}
			resp, err := api.SetChecklistItem(cmd.Context(), ticketID, index, completed, notes)
			if err != nil {
				return err
			}
			fmt.Printf("Step %d updated. Ticket status: %s\n", index, resp.TicketStatus)
		}

		resp, err := api.GetChecklist(cmd.Context(), ticketID)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Checklist for " + resp.TicketID))
		for i, item := range resp.Items {
			box := "[ ]"
			if item.Completed {
				box = "[x]"
			}
			fmt.Printf("%3d %s %s\n", i, box, item.Task)
			if item.Notes != "" {
				fmt.Printf("      %s\n", dimStyle.Render(item.Notes))
			}
		}
		return nil
	},
}

func init() {
	checklistCmd.Flags().IntVar(&checkIndex, "check", -1, "mark the step at this index complete")
	checklistCmd.Flags().IntVar(&uncheckIndex, "uncheck", -1, "mark the step at this index not complete")
	checklistCmd.Flags().StringVar(&itemNotes, "notes", "", "set notes on the updated step")
	rootCmd.AddCommand(checklistCmd)
}
