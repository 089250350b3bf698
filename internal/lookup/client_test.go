package lookup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSearchParsesPage checks a normal catalog response round-trips.
func TestSearchParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/exercises" {
			t.Errorf("path = %q, want /api/v1/exercises", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "press" {
			t.Errorf("q = %q, want %q", got, "press")
		}
		json.NewEncoder(w).Encode(SearchResult{
			Exercises: []Exercise{{ID: "42", Name: "Bench Press", Category: "chest"}},
			Total:     1,
			Page:      1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLog())
	result := c.Search(context.Background(), Query{Text: "press", Page: 1})
	if len(result.Exercises) != 1 {
		t.Fatalf("len(Exercises) = %d, want 1", len(result.Exercises))
	}
	if result.Exercises[0].Name != "Bench Press" {
		t.Errorf("Name = %q, want %q", result.Exercises[0].Name, "Bench Press")
	}
}

// TestSearchDegradesOnServerError verifies catalog failures never
// propagate: the caller sees an empty page.
func TestSearchDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLog())
	result := c.Search(context.Background(), Query{Text: "press"})
	if len(result.Exercises) != 0 {
		t.Errorf("len(Exercises) = %d, want 0", len(result.Exercises))
	}
}

// TestSearchDisabledWithoutBaseURL returns empty without any network call.
func TestSearchDisabledWithoutBaseURL(t *testing.T) {
	c := NewClient("", nil, testLog())
	if c.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	result := c.Search(context.Background(), Query{Text: "press"})
	if len(result.Exercises) != 0 {
		t.Errorf("len(Exercises) = %d, want 0", len(result.Exercises))
	}
}

// TestDemoUsesCache covers the read-through path: first fetch hits the
// server and populates the cache, second fetch is served locally.
func TestDemoUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(Exercise{ID: "42", Name: "Bench Press"})
	}))
	defer srv.Close()

	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer cache.Close()

	c := NewClient(srv.URL, cache, testLog())

	ex := c.Demo(context.Background(), "42")
	if ex == nil || ex.Name != "Bench Press" {
		t.Fatalf("Demo() = %+v, want Bench Press", ex)
	}
	ex = c.Demo(context.Background(), "42")
	if ex == nil || ex.Name != "Bench Press" {
		t.Fatalf("second Demo() = %+v, want Bench Press", ex)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

// TestDemoFailureReturnsNil logs and degrades when the catalog is down.
func TestDemoFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, testLog())
	if ex := c.Demo(context.Background(), "nope"); ex != nil {
		t.Errorf("Demo() = %+v, want nil", ex)
	}
}
