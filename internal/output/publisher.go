package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ideaforge-dev/ideaforge/internal/workflow"
)

const publishTimeout = 30 * time.Second

// HTTPPublisher posts the tracker import payload of a finished
// specification to a project tracker endpoint. It implements
// workflow.Publisher; the caller decides whether its errors are fatal.
type HTTPPublisher struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPPublisher creates a publisher for the given import endpoint.
// Token is optional; when set it is sent as a bearer credential.
func NewHTTPPublisher(url, token string) *HTTPPublisher {
	return &HTTPPublisher{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: publishTimeout},
	}
}

// Publish posts the specification to the tracker.
func (p *HTTPPublisher) Publish(ctx context.Context, spec *workflow.Specification) error {
	body, err := json.Marshal(TrackerImport(spec))
	if err != nil {
		return fmt.Errorf("publish: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publish: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publish: tracker returned %s", resp.Status)
	}
	return nil
}
