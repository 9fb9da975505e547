// Package client is a thin HTTP client for the bug tracker API, used by the
// bugctl command and available to other Go consumers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"bugtracker/internal/models"
)

// APIError is a non-2xx response decoded from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Fields holds the field-to-message validation mapping on 400 responses.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msg := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
		sort.Strings(parts)
		return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// BugInput carries the client-supplied fields for create and update calls.
// Empty strings are omitted from the request body, which on update means
// "leave unchanged".
type BugInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

// DeleteResult confirms a successful delete.
type DeleteResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Client issues requests against a bug tracker server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ListBugs fetches the full bug collection.
func (c *Client) ListBugs(ctx context.Context) ([]models.Bug, error) {
	var bugs []models.Bug
	if err := c.do(ctx, http.MethodGet, "/api/bugs", nil, &bugs); err != nil {
		return nil, err
	}
	return bugs, nil
}

// CreateBug reports a new bug and returns the created record.
func (c *Client) CreateBug(ctx context.Context, in BugInput) (models.Bug, error) {
	var bug models.Bug
	if err := c.do(ctx, http.MethodPost, "/api/bugs", in, &bug); err != nil {
		return models.Bug{}, err
	}
	return bug, nil
}

// UpdateBug applies a partial update and returns the post-update record.
func (c *Client) UpdateBug(ctx context.Context, id string, in BugInput) (models.Bug, error) {
	var bug models.Bug
	if err := c.do(ctx, http.MethodPut, "/api/bugs/"+id, in, &bug); err != nil {
		return models.Bug{}, err
	}
	return bug, nil
}

// DeleteBug removes a bug by id.
func (c *Client) DeleteBug(ctx context.Context, id string) (DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/api/bugs/"+id, nil, &result); err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError turns an error response into an *APIError. Validation
// failures arrive as a bare field-to-message object, everything else as
// {"message": ...}.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return apiErr
	}

	if msg, ok := payload["message"]; ok && len(payload) == 1 {
		apiErr.Message = msg
		return apiErr
	}
	if len(payload) > 0 {
		apiErr.Fields = payload
	}
	return apiErr
}
