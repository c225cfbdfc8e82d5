package simclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"fundview/internal/rawdoc"

	"github.com/rs/zerolog/log"
)

// listPath finds the item array in a list response that is not itself an array.
var listPath = rawdoc.Field("simulations", "items", "results", "data")

// HTTPClient talks to the simulation service over HTTP. Responses are cached with a
// sliding TTL and uncached requests are spaced by Config.RequestDelay.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time

	cacheMu sync.Mutex
	cache   map[string]*cacheEntry
}

type cacheEntry struct {
	value       rawdoc.Value
	expiration  time.Time
	accessCount int
	originalTTL time.Duration
}

func New(cfg Config) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      make(map[string]*cacheEntry),
	}
}

func (c *HTTPClient) GetResults(ctx context.Context, id string) (rawdoc.Value, error) {
	return c.fetch(ctx, "results:"+id, "/api/simulations/"+url.PathEscape(id)+"/results", resultsTTL, id)
}

func (c *HTTPClient) GetStatus(ctx context.Context, id string) (rawdoc.Value, error) {
	return c.fetch(ctx, "status:"+id, "/api/simulations/"+url.PathEscape(id)+"/status", statusTTL, id)
}

// ListSimulations returns one raw status document per known simulation. Both a bare
// array and an object wrapping the array are accepted.
func (c *HTTPClient) ListSimulations(ctx context.Context) ([]rawdoc.Value, error) {
	doc, err := c.fetch(ctx, "list", "/api/simulations", listTTL, "")
	if err != nil {
		return nil, err
	}
	if items, ok := doc.Array(); ok {
		return items, nil
	}
	return rawdoc.Items(doc, listPath), nil
}

// Invalidate drops every cached response for id.
func (c *HTTPClient) Invalidate(id string) {
	c.cacheMu.Lock()
	delete(c.cache, "results:"+id)
	delete(c.cache, "status:"+id)
	c.cacheMu.Unlock()
}

func (c *HTTPClient) fetch(ctx context.Context, cacheKey, path string, ttl time.Duration, id string) (rawdoc.Value, error) {
	if c.cfg.BaseURL == "" {
		return rawdoc.Value{}, ErrNotConfigured
	}
	if val, ok := c.getFromCache(cacheKey); ok {
		return val, nil
	}

	if err := c.throttle(ctx); err != nil {
		return rawdoc.Value{}, err
	}

	reqURL := c.cfg.BaseURL + path
	log.Debug().Str("url", reqURL).Msg("Requesting simulation service")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return rawdoc.Value{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rawdoc.Value{}, fmt.Errorf("simulation service request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp, id); err != nil {
		return rawdoc.Value{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return rawdoc.Value{}, fmt.Errorf("failed to read simulation response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return rawdoc.Value{}, fmt.Errorf("simulation service returned an empty body for %s", path)
	}
	doc, err := rawdoc.ParseLenient(body)
	if err != nil {
		return rawdoc.Value{}, fmt.Errorf("failed to decode simulation response: %w", err)
	}

	c.addToCache(cacheKey, doc, ttl)
	return doc, nil
}

func statusError(resp *http.Response, id string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		if id == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("simulation service authentication failed (%d). Please check SIMULATION_API_TOKEN.", resp.StatusCode)
	case http.StatusTooManyRequests:
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			return fmt.Errorf("simulation service rate limit exceeded (429). Retry after %s seconds.", retryAfter)
		}
		return fmt.Errorf("simulation service rate limit exceeded (429).")
	default:
		return fmt.Errorf("simulation service returned status %d.", resp.StatusCode)
	}
}

// throttle waits until RequestDelay has passed since the previous request.
func (c *HTTPClient) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	if wait := c.cfg.RequestDelay - time.Since(c.lastRequest); wait > 0 {
		log.Debug().Dur("wait", wait).Msg("Throttling simulation service request")
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *HTTPClient) getFromCache(key string) (rawdoc.Value, bool) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return rawdoc.Value{}, false
	}
	if time.Now().After(entry.expiration) {
		delete(c.cache, key)
		return rawdoc.Value{}, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	// Sliding window, capped so hot entries still expire eventually.
	if entry.accessCount < 6 {
		entry.expiration = time.Now().Add(entry.originalTTL)
		entry.accessCount++
	}
	return entry.value, true
}

func (c *HTTPClient) addToCache(key string, value rawdoc.Value, ttl time.Duration) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache[key] = &cacheEntry{
		value:       value,
		expiration:  time.Now().Add(ttl),
		originalTTL: ttl,
		accessCount: 1,
	}
}
