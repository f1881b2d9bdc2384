// Package board implements a terminal status board for the task item API.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"task-board-api/models"
	"task-board-api/response"
)

// APIError is a failed API call, carrying the envelope's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// Client talks to the task item endpoints under a base URL such as
// http://localhost:3000/api.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client. A nil hc uses a client with a 10s timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) List(ctx context.Context) ([]models.TaskItemDTO, error) {
	var out []models.TaskItemDTO
	if err := c.do(ctx, http.MethodGet, "/task-items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, title string) (models.TaskItemDTO, error) {
	var out models.TaskItemDTO
	err := c.do(ctx, http.MethodPost, "/task-items", map[string]string{"title": title}, &out)
	return out, err
}

func (c *Client) SetStatus(ctx context.Context, id int, status models.Status) (models.TaskItemDTO, error) {
	var out models.TaskItemDTO
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/task-items/%d", id), map[string]string{"status": status.String()}, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/task-items/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env response.Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("API request failed with status %d", resp.StatusCode)}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		msg := fmt.Sprintf("API request failed with status %d", resp.StatusCode)
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil && env.Payload != nil {
		if err := json.Unmarshal(*env.Payload, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}
