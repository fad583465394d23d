package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datapigeon/fixity/internal/models"
	"github.com/datapigeon/fixity/internal/telemetry"
)

var ticketsStatusFilter string

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8700"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func urgencyStyle(urgency string) lipgloss.Style {
	switch strings.ToLower(urgency) {
	case "critical":
		return criticalStyle
	case "high":
		return highStyle
	case "medium":
		return mediumStyle
	case "low":
		return lowStyle
	default:
		return dimStyle
	}
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List the maintenance ticket queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		tickets, err := api.ListTickets(cmd.Context(), ticketsStatusFilter)
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			fmt.Println(dimStyle.Render("No tickets."))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-14s %-10s %-18s %-22s %-24s %5s",
			"TICKET", "URGENCY", "STATUS", "MODEL", "COMPONENT", "PROB")))
		for _, t := range tickets {
			fmt.Printf("%-14s %-10s %-18s %-22s %-24s %4.0f%%\n",
				t.TicketID,
				urgencyStyle(t.Urgency).Render(fmt.Sprintf("%-10s", t.Urgency)),
				t.Status,
				t.StationInfo.Model,
				t.PredictionDetails.FailingComponent,
				t.PredictionDetails.ProbabilityScore*100,
			)
		}
		return nil
	},
}

var ticketCmd = &cobra.Command{
	Use:   "ticket <ticket-id>",
	Short: "Show one ticket with its telemetry trend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := api.GetTicket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTicket(t)
		return nil
	},
}

func printTicket(t models.Ticket) {
	fmt.Println(headerStyle.Render(t.TicketID))
	fmt.Printf("  Urgency:    %s\n", urgencyStyle(t.Urgency).Render(t.Urgency))
	fmt.Printf("  Status:     %s\n", t.Status)
	fmt.Printf("  Station:    %s (%s), %s\n", t.StationInfo.ChargerID, t.StationInfo.Model, t.StationInfo.Location)
	fmt.Printf("  Component:  %s\n", t.PredictionDetails.FailingComponent)
	fmt.Printf("  Error code: %s\n", t.PredictionDetails.ExpectedErrorCode)
	fmt.Printf("  Failure in: %.0fh (p=%.2f)\n", t.PredictionDetails.TimeToFailureHours, t.PredictionDetails.ProbabilityScore)
	fmt.Println("\n  Telemetry trend:")
	for _, line := range strings.Split(telemetry.Summarize(t), "\n") {
		fmt.Printf("    %s\n", line)
	}
}

var setStatusCmd = &cobra.Command{
	Use:   "status <ticket-id> <status>",
	Short: "Update a ticket's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := api.SetStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", t.TicketID, t.Status)
		return nil
	},
}

func init() {
	ticketsCmd.Flags().StringVar(&ticketsStatusFilter, "status", "", "filter by status (predicted_failure, in_progress, completed, offline)")
	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(setStatusCmd)
}
