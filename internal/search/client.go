// Package search talks to the external episode search service and keeps
// only the newest of overlapping requests.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/prepdesk/internal/contract"
)

// Client runs ranked episode searches. Results are opaque: the caller
// renders them in the order given and highlights the returned spans.
type Client interface {
	Search(ctx context.Context, req contract.SearchRequest) ([]contract.SearchResult, error)
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client that posts to <Endpoint>/episodes/search.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type wireResult struct {
	Episode *wireEpisode `json:"episode"`
	Matches *wireMatches `json:"matches"`
}

type wireEpisode struct {
	ID          int    `json:"id"`
	PodcastID   int    `json:"podcast_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	PublishDate string `json:"publish_date"`
}

type wireMatches struct {
	Title       [][2]int `json:"title"`
	Description [][2]int `json:"description"`
}

func (c *httpClient) Search(ctx context.Context, req contract.SearchRequest) ([]contract.SearchResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	var (
		results []contract.SearchResult
		lastErr error
	)
	for i := 0; i < 1+c.cfg.MaxRetries; i++ {
		results, lastErr = c.doRequest(ctx, req)
		if lastErr == nil || errors.Is(lastErr, ErrInvalidResponse) || ctx.Err() != nil {
			break
		}
	}

	event := CallEvent{
		Query:     req.Query,
		Podcasts:  len(req.PodcastIDs),
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if lastErr == nil {
		event.Success = true
		event.Results = len(results)
		c.observer.OnCallComplete(event)
		return results, nil
	}

	err := classify(ctx, lastErr)
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return nil, err
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return context.Canceled
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.Is(err, ErrInvalidResponse):
		return err
	case isConnectionError(err):
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func (c *httpClient) doRequest(ctx context.Context, req contract.SearchRequest) ([]contract.SearchResult, error) {
	if req.PodcastIDs == nil {
		req.PodcastIDs = []int{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/episodes/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	switch {
	case httpResp.StatusCode >= 400 && httpResp.StatusCode < 500:
		// The request itself was rejected; repeating it cannot succeed.
		return nil, fmt.Errorf("%w: search returned status %d: %s", ErrInvalidResponse, httpResp.StatusCode, string(body))
	case httpResp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("search returned status %d: %s", httpResp.StatusCode, string(body))
	}

	var wire []wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return toResults(wire)
}

func toResults(wire []wireResult) ([]contract.SearchResult, error) {
	out := make([]contract.SearchResult, 0, len(wire))
	for i, w := range wire {
		if w.Episode == nil {
			return nil, fmt.Errorf("%w: result %d has no episode", ErrInvalidResponse, i)
		}
		published, err := parsePublishDate(w.Episode.PublishDate)
		if err != nil {
			return nil, fmt.Errorf("%w: result %d: %v", ErrInvalidResponse, i, err)
		}
		r := contract.SearchResult{Episode: contract.Episode{
			ID:          w.Episode.ID,
			PodcastID:   w.Episode.PodcastID,
			Title:       w.Episode.Title,
			Description: w.Episode.Description,
			URL:         w.Episode.URL,
			ImageURL:    w.Episode.ImageURL,
			PublishDate: published,
		}}
		if w.Matches != nil {
			r.Matches = &contract.Matches{
				Title:       toSpans(w.Matches.Title),
				Description: toSpans(w.Matches.Description),
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func toSpans(pairs [][2]int) []contract.Span {
	if len(pairs) == 0 {
		return nil
	}
	spans := make([]contract.Span, len(pairs))
	for i, p := range pairs {
		spans[i] = contract.Span{Start: p[0], End: p[1]}
	}
	return spans
}

// The service emits naive timestamps; they are read as UTC.
var publishLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublishDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised publish_date %q", s)
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
