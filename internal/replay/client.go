package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/Abhiram-Bhat/aifit/internal/pose"
)

// Client drives a detection session on a running AI-FIT server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the AI-FIT server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) post(path string, body []byte, out any) error {
	req, err := http.NewRequest(http.MethodPost, c.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, respBody)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return nil
}

// Start begins a detection session for the named exercise.
func (c *Client) Start(exercise string, opts pose.StartOptions) error {
	payload, err := json.Marshal(struct {
		Exercise string `json:"exercise"`
		pose.StartOptions
	}{Exercise: exercise, StartOptions: opts})
	if err != nil {
		return fmt.Errorf("marshaling start request: %w", err)
	}
	return c.post("/api/v1/detect/start", payload, nil)
}

// Observe sends one raw frame and returns the analysis. A frame the server
// rejects as malformed is reported as skipped, not fatal.
func (c *Client) Observe(frame []byte) (*pose.Analysis, bool, error) {
	var analysis pose.Analysis
	err := c.post("/api/v1/detect/observe", frame, &analysis)
	if err != nil {
		if isBadFrame(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return &analysis, false, nil
}

// isBadFrame distinguishes per-frame rejections (HTTP 400) from transport or
// session failures, which must abort the replay.
func isBadFrame(err error) bool {
	return strings.Contains(err.Error(), "status 400")
}

// Save finishes the session and returns the stored summary.
func (c *Client) Save() (*models.SessionSummary, error) {
	var summary models.SessionSummary
	if err := c.post("/api/v1/detect/save", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
