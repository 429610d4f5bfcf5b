// Package api is the HTTP client of the relay server REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/txtpresence/pkg/api"
)

// ErrNotFound indicates a 404 response of the relay
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response of the relay.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Is maps 404 responses to ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client представляет HTTP клиент для взаимодействия с relay-сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// BaseURL returns the relay base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateDocument создает документ с начальным текстом
func (c *Client) CreateDocument(ctx context.Context, text string) (*api.DocumentResponse, error) {
	var resp api.DocumentResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/documents", api.CreateDocumentRequest{Text: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create document request failed: %w", err)
	}
	return &resp, nil
}

// GetDocument получает текущее состояние документа
func (c *Client) GetDocument(ctx context.Context, locator string) (*api.DocumentResponse, error) {
	var resp api.DocumentResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/v1/documents/"+url.PathEscape(locator), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("get document request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			statusErr.Message = errResp.Message
		}
		return statusErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
