// Package client provides the REST client for the Fixity server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/metrics"
	"github.com/datapigeon/fixity/internal/models"
)

// Client talks to a running Fixity server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a REST client. If baseURL is empty, FIXITY_SERVER_URL is
// used, then localhost. Chat turns block on LLM generation, so the
// default timeout is generous.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("FIXITY_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("FIXITY_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type serverError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var se serverError
		if json.Unmarshal(data, &se) == nil && se.Error != "" {
			return fmt.Errorf("server error: %s (%s)", se.Error, resp.Status)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// ListTickets fetches the sorted ticket queue, optionally filtered by status.
func (c *Client) ListTickets(ctx context.Context, status string) ([]models.Ticket, error) {
	path := "/api/tickets"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var tickets []models.Ticket
	if err := c.do(ctx, http.MethodGet, path, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches a single ticket.
func (c *Client) GetTicket(ctx context.Context, id string) (models.Ticket, error) {
	var ticket models.Ticket
	err := c.do(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(id), nil, &ticket)
	return ticket, err
}

// SetStatus updates a ticket's status.
func (c *Client) SetStatus(ctx context.Context, id, status string) (models.Ticket, error) {
	var ticket models.Ticket
	err := c.do(ctx, http.MethodPatch, "/api/tickets/"+url.PathEscape(id)+"/status",
		map[string]string{"status": status}, &ticket)
	return ticket, err
}

// ChecklistResponse is the checklist payload returned by the server.
type ChecklistResponse struct {
	TicketID string                 `json:"ticket_id"`
	Items    []models.ChecklistItem `json:"items"`
}

// GetChecklist fetches or generates the ticket's checklist.
func (c *Client) GetChecklist(ctx context.Context, id string) (ChecklistResponse, error) {
	var resp ChecklistResponse
	err := c.do(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(id)+"/checklist", nil, &resp)
	return resp, err
}

// SetItemResponse is the item-update payload returned by the server.
type SetItemResponse struct {
	Item         models.ChecklistItem `json:"item"`
	TicketStatus models.Status        `json:"ticket_status"`
}

// SetChecklistItem updates one checklist item.
func (c *Client) SetChecklistItem(ctx context.Context, id string, index int, completed bool, notes *string) (SetItemResponse, error) {
	body := map[string]any{"completed": completed}
	if notes != nil {
		body["notes"] = *notes
	}
	var resp SetItemResponse
	err := c.do(ctx, http.MethodPatch,
		fmt.Sprintf("/api/tickets/%s/checklist/%d", url.PathEscape(id), index), body, &resp)
	return resp, err
}

// Chat sends one chat turn for a ticket.
func (c *Client) Chat(ctx context.Context, ticketID, message string, stepIndex *int) (copilot.ChatResult, error) {
	body := map[string]any{"ticket_id": ticketID, "message": message}
	if stepIndex != nil {
		body["step_index"] = *stepIndex
	}
	var result copilot.ChatResult
	err := c.do(ctx, http.MethodPost, "/api/chat", body, &result)
	return result, err
}

// ChatHistory fetches the full chat history for a ticket.
func (c *Client) ChatHistory(ctx context.Context, ticketID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	err := c.do(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(ticketID)+"/chat/history", nil, &history)
	return history, err
}

// Reset clears all mutable server state.
func (c *Client) Reset(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/reset?key="+url.QueryEscape(key), nil, nil)
}

// Stats fetches server runtime statistics.
func (c *Client) Stats(ctx context.Context) (metrics.Snapshot, error) {
	var snap metrics.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &snap)
	return snap, err
}
