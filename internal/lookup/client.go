package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Exercise is one catalog entry from the external exercise database.
type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Equipment   string   `json:"equipment,omitempty"`
	Muscles     []string `json:"muscles,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Query narrows a catalog search. Zero values mean "any".
type Query struct {
	Text      string
	Category  string
	Sex       string
	Equipment string
	Page      int
	Size      int
}

// SearchResult is one page of catalog matches.
type SearchResult struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	HasNext   bool       `json:"has_next"`
	HasPrev   bool       `json:"has_prev"`
}

// Client talks to the external exercise catalog. The catalog is a
// convenience, never a dependency: every method degrades to an empty
// result on failure so session flows keep working offline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	log        *slog.Logger
}

// NewClient creates a catalog client. cache may be nil to disable the
// local demo cache. An empty baseURL disables the client entirely.
func NewClient(baseURL string, cache *Cache, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		log:        log,
	}
}

// Enabled reports whether a catalog URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lookup: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// Demo fetches details for one exercise, consulting the local cache
// first. Failures are logged and surface as a nil exercise.
func (c *Client) Demo(ctx context.Context, id string) *Exercise {
	if !c.Enabled() || id == "" {
		return nil
	}

	if c.cache != nil {
		if ex, err := c.cache.Get(id); err != nil {
			c.log.Warn("exercise cache read failed", "id", id, "error", err)
		} else if ex != nil {
			return ex
		}
	}

	body, err := c.get(ctx, "/api/v1/exercises/"+url.PathEscape(id), nil)
	if err != nil {
		c.log.Warn("exercise lookup failed", "id", id, "error", err)
		return nil
	}

	var ex Exercise
	if err := json.Unmarshal(body, &ex); err != nil {
		c.log.Warn("exercise lookup decode failed", "id", id, "error", err)
		return nil
	}

	if c.cache != nil {
		if err := c.cache.Put(&ex); err != nil {
			c.log.Warn("exercise cache write failed", "id", id, "error", err)
		}
	}

	return &ex
}

// Search queries the catalog. Failures are logged and return an empty
// result page rather than an error.
func (c *Client) Search(ctx context.Context, q Query) SearchResult {
	empty := SearchResult{Exercises: []Exercise{}, Page: q.Page}
	if !c.Enabled() {
		return empty
	}

	params := url.Values{}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Sex != "" {
		params.Set("sex", q.Sex)
	}
	if q.Equipment != "" {
		params.Set("equipment", q.Equipment)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		c.log.Warn("exercise search failed", "error", err)
		return empty
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.log.Warn("exercise search decode failed", "error", err)
		return empty
	}
	if result.Exercises == nil {
		result.Exercises = []Exercise{}
	}
	return result
}
