package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"datafeed/api/health"
	"datafeed/api/stats"
	"datafeed/server/util"
)

type Client struct {
	host string
	http *http.Client
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Error response: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("Error response: %d %s", e.StatusCode, e.Message)
}

func NewClient(host string) *Client {
	return &Client{
		host: strings.TrimRight(host, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody util.ErrorResponse
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return body, apiErr
	}

	return body, nil
}

// GetData returns the raw dataset JSON served by /getData.
func (c *Client) GetData() (json.RawMessage, error) {
	body, err := c.get("/getData")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Health decodes the health response, also for a 503.
func (c *Client) Health() (*health.HealthResponse, error) {
	body, err := c.get("/_health")
	var resp health.HealthResponse
	if decodeErr := json.Unmarshal(body, &resp); decodeErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("decode health response: %w", decodeErr)
	}
	return &resp, err
}

func (c *Client) RequestStats(since time.Time) (*stats.RequestsResponse, error) {
	path := "/api/v1/stats/requests"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	body, err := c.get(path)
	if err != nil {
		return nil, err
	}

	var resp stats.RequestsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}
	return &resp, nil
}
