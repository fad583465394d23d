package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datapigeon/fixity/internal/client"
	"github.com/datapigeon/fixity/internal/copilot"
)

var chatStepIndex int

var chatCmd = &cobra.Command{
	Use:   "chat <ticket-id>",
	Short: "Chat with the copilot about a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var step *int
		if cmd.Flags().Changed("step") {
			step = &chatStepIndex
		}
		return runChat(api, args[0], step)
	},
}

func init() {
	chatCmd.Flags().IntVar(&chatStepIndex, "step", 0, "focus the conversation on this checklist step index")
	rootCmd.AddCommand(chatCmd)
}

type chatLine struct {
	speaker string
	text    string
}

// chatReplyMsg carries one completed chat turn.
type chatReplyMsg struct {
	result copilot.ChatResult
	err    error
}

type chatModel struct {
	api       *client.Client
	ticketID  string
	stepIndex *int

	input   textinput.Model
	spinner spinner.Model
	lines   []chatLine
	waiting bool
	err     error

	technicianStyle lipgloss.Style
	copilotStyle    lipgloss.Style
	sourceStyle     lipgloss.Style
}

func newChatModel(api *client.Client, ticketID string, stepIndex *int) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask the copilot..."

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return chatModel{
		api:             api,
		ticketID:        ticketID,
		stepIndex:       stepIndex,
		input:           input,
		spinner:         sp,
		technicianStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true),
		copilotStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true),
		sourceStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true),
	}
}

func (m chatModel) Init() tea.Cmd {
	return m.input.Focus()
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.lines = append(m.lines, chatLine{speaker: "Technician", text: text})
			m.input.SetValue("")
			m.waiting = true
			return m, tea.Batch(m.sendChat(text), m.spinner.Tick)
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case chatReplyMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		text := msg.result.Answer
		if len(msg.result.CompletedSteps) > 0 {
			text += fmt.Sprintf("\n(marked steps complete: %v)", msg.result.CompletedSteps)
		}
		if len(msg.result.Sources) > 0 {
			text += "\nSources: " + strings.Join(msg.result.Sources, "; ")
		}
		m.lines = append(m.lines, chatLine{speaker: "Copilot", text: text})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() tea.View {
	var b strings.Builder

	header := "Chatting about " + m.ticketID
	if m.stepIndex != nil {
		header += fmt.Sprintf(" (step %d)", *m.stepIndex)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		style := m.technicianStyle
		if line.speaker == "Copilot" {
			style = m.copilotStyle
		}
		b.WriteString(style.Render(line.speaker+":") + " " + line.text + "\n\n")
	}

	if m.waiting {
		b.WriteString(m.spinner.View() + " thinking...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(m.sourceStyle.Render("Enter to send, Esc to quit") + "\n")

	return tea.NewView(b.String())
}

// sendChat runs the blocking chat call off the update loop.
func (m chatModel) sendChat(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := m.api.Chat(ctx, m.ticketID, text, m.stepIndex)
		return chatReplyMsg{result: result, err: err}
	}
}

func runChat(api *client.Client, ticketID string, stepIndex *int) error {
	// Fail fast on unknown tickets before entering the TUI.
	if _, err := api.GetTicket(context.Background(), ticketID); err != nil {
		return err
	}

	p := tea.NewProgram(newChatModel(api, ticketID, stepIndex))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	if m, ok := finalModel.(chatModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
