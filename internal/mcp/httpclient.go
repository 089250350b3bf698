package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

// HTTPClient implements DataSource by calling the IronCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListMeasurements(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]models.Measurement, error) {
	params := url.Values{}
	params.Set("subject_id", subjectID.String())
	params.Set("start", from.Format(time.RFC3339))
	params.Set("end", to.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/measurements", params)
	if err != nil {
		return nil, err
	}

	var rows []models.Measurement
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode measurements: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, athleteID uuid.UUID, limit int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	params.Set("athlete_id", athleteID.String())
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ListCompletedSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+sessionID.String()+"/sets", nil)
	if err != nil {
		return nil, err
	}

	var sets []models.CompletedSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}
