package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPProvider pulls raw hotel records from a JSON-over-HTTP feed, so
// additional sources can be plugged in without code changes. The
// response body is decoded untyped: feeds are not trusted to be
// well-formed and the sanitizer deals with whatever comes back.
type HTTPProvider struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(name, baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Fetch searches for hotels by making an HTTP GET request.
func (p *HTTPProvider) Fetch(ctx context.Context, params Params) ([]any, error) {
	u, err := url.Parse(p.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("location", params.Location)
	q.Set("check_in", params.CheckInDate())
	q.Set("check_out", params.CheckOutDate())
	q.Set("adults", strconv.Itoa(params.Adults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if params.Credentials.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+params.Credentials.APIKey)
	}
	if params.Credentials.ProjectID != "" {
		req.Header.Set("X-Project-ID", params.Credentials.ProjectID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	// Decode untyped with json.Number so numeric fields survive intact.
	var items []any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return items, nil
}
