package azdo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const apiVersion = "7.0"

// Sentinel errors for the failure classes callers care about. Everything
// else surfaces as a generic error carrying the HTTP status.
var (
	ErrNotFound     = errors.New("work item not found")
	ErrUnauthorized = errors.New("authentication failed (check your PAT)")
)

// Client fetches work items from an Azure DevOps organization.
type Client struct {
	http    *http.Client
	baseURL string
	pat     string
}

// NewClient creates a client for the given organization URL and personal
// access token. A trailing slash on the URL is tolerated.
func NewClient(orgURL, pat string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(orgURL, "/"),
		pat:     pat,
	}
}

// workItemResponse is the wire shape of a work item payload.
type workItemResponse struct {
	ID     int            `json:"id"`
	Fields map[string]any `json:"fields"`
	Links  struct {
		HTML struct {
			Href string `json:"href"`
		} `json:"html"`
	} `json:"_links"`
}

// GetWorkItem fetches a single work item by id. A single attempt is made;
// there is no retry policy.
func (c *Client) GetWorkItem(ctx context.Context, id int) (*WorkItem, error) {
	url := fmt.Sprintf("%s/_apis/wit/workitems/%d?api-version=%s", c.baseURL, id, apiVersion)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("work item #%d: %w", id, err)
	}

	var resp workItemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("work item #%d: decoding response: %w", id, err)
	}
	if resp.Fields == nil {
		return nil, fmt.Errorf("work item #%d: response has no fields", id)
	}

	return workItemFromResponse(id, resp.Fields, resp.Links.HTML.Href)
}

// Verify probes the organization URL with the configured credentials.
func (c *Client) Verify(ctx context.Context) error {
	url := fmt.Sprintf("%s/_apis/projects?api-version=%s&$top=1", c.baseURL, apiVersion)
	_, err := c.get(ctx, url)
	return err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth("", c.pat)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	// Azure DevOps answers unauthenticated API requests with a sign-in
	// redirect page instead of a 401 in some configurations.
	case resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusNonAuthoritativeInfo:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("unexpected response: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
