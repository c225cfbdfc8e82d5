package simclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fundview/internal/rawdoc"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Token: "secret"}), &calls
}

func TestGetResults_AuthAndLenientBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/simulations/s1/results" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"id": "s1", "waterfall_results": {"lp_irr": 0.14,},}`))
	})

	doc, err := client.GetResults(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	if got := rawdoc.Float(doc, rawdoc.Field("waterfall_results.lp_irr"), 0); got != 0.14 {
		t.Errorf("lp_irr = %v, want 0.14", got)
	}
}

func TestGetResults_Cached(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"s1"}`))
	})

	for range 3 {
		if _, err := client.GetResults(context.Background(), "s1"); err != nil {
			t.Fatalf("GetResults() error = %v", err)
		}
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}

	client.Invalidate("s1")
	if _, err := client.GetResults(context.Background(), "s1"); err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("server calls after Invalidate = %d, want 2", got)
	}
}

func TestFetch_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		wantSubstr string
		wantErr    error
	}{
		{"NotFound", http.StatusNotFound, "", "s1", ErrNotFound},
		{"Unauthorized", http.StatusUnauthorized, "", "authentication failed (401)", nil},
		{"Forbidden", http.StatusForbidden, "", "authentication failed (403)", nil},
		{"RateLimited", http.StatusTooManyRequests, "30", "Retry after 30 seconds", nil},
		{"ServerError", http.StatusBadGateway, "", "status 502", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
			})

			_, err := client.GetStatus(context.Background(), "s1")
			if err == nil {
				t.Fatal("GetStatus() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSubstr)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantErr)
			}
		})
	}
}

func TestFetch_UndecodableBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(``))
	})
	if _, err := client.GetResults(context.Background(), "s1"); err == nil {
		t.Error("GetResults() on empty body: want error")
	}
}

func TestFetch_NonJSONBodyNotCached(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>proxy error</body></html>`))
	})

	for range 2 {
		if doc, err := client.GetResults(context.Background(), "s1"); err == nil {
			t.Fatalf("GetResults() on HTML body = %v, want error", doc.Any())
		}
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestListSimulations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"BareArray", `[{"id":"a"},{"id":"b"}]`, 2},
		{"Wrapped", `{"simulations":[{"id":"a"}]}`, 1},
		{"CamelWrapped", `{"items":[{"id":"a"},{"id":"b"},{"id":"c"}]}`, 3},
		{"Unrecognized", `{"count":0}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/simulations" {
					t.Errorf("path = %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})
			items, err := client.ListSimulations(context.Background())
			if err != nil {
				t.Fatalf("ListSimulations() error = %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("len = %d, want %d", len(items), tt.want)
			}
		})
	}
}

func TestFetch_NotConfigured(t *testing.T) {
	client := New(Config{})
	if _, err := client.GetResults(context.Background(), "s1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestThrottle_RespectsContext(t *testing.T) {
	client := New(Config{BaseURL: "http://unused", RequestDelay: time.Hour})
	client.lastRequest = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := client.throttle(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("throttle() = %v, want deadline exceeded", err)
	}
}

func TestCache_Expires(t *testing.T) {
	client := New(Config{BaseURL: "http://unused"})
	client.addToCache("k", rawdoc.StringValue("v"), -time.Second)
	if _, ok := client.getFromCache("k"); ok {
		t.Error("expired entry was returned")
	}
}
