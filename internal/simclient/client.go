package simclient

import (
	"context"
	"errors"
	"time"

	"fundview/internal/rawdoc"
)

var (
	// ErrNotConfigured is returned when no service URL is set.
	ErrNotConfigured = errors.New("simulation service URL is not configured (set SIMULATION_API_URL)")
	// ErrNotFound wraps 404 responses.
	ErrNotFound = errors.New("simulation not found")
)

// Client fetches raw documents from the simulation service.
type Client interface {
	GetResults(ctx context.Context, id string) (rawdoc.Value, error)
	GetStatus(ctx context.Context, id string) (rawdoc.Value, error)
	ListSimulations(ctx context.Context) ([]rawdoc.Value, error)
}

// Config holds the connection settings for the simulation service.
type Config struct {
	BaseURL string
	Token   string

	// Minimum spacing between uncached requests.
	RequestDelay time.Duration
	Timeout      time.Duration
}

// Cache lifetimes. Status changes while a run is in flight, results do not.
const (
	resultsTTL = 10 * time.Minute
	statusTTL  = 5 * time.Second
	listTTL    = time.Minute
)
