// Package diagnostics reports normalization findings once per key. A Recorder
// replaces any process-wide "already warned" set: each owner holds its own and
// can Reset it, which keeps tests and long-running servers independent.
package diagnostics

import (
	"sync"

	"fundview/internal/adapter"

	"github.com/rs/zerolog"
)

// Recorder deduplicates log lines by key. It is safe for concurrent use.
type Recorder struct {
	logger zerolog.Logger

	mu   sync.Mutex
	seen map[string]int
}

func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger, seen: make(map[string]int)}
}

// Warn logs msg at warn level the first time key is seen and reports whether it did.
func (r *Recorder) Warn(key, msg string) bool {
	return r.emit(zerolog.WarnLevel, key, msg)
}

// Info logs msg at info level the first time key is seen.
func (r *Recorder) Info(key, msg string) bool {
	return r.emit(zerolog.InfoLevel, key, msg)
}

// Issues records one warning per distinct issue of a simulation and returns how
// many were new.
func (r *Recorder) Issues(simulationID string, issues []adapter.Issue) int {
	logged := 0
	for _, issue := range issues {
		if r.Warn(simulationID+"|"+issue.String(), "parallel arrays disagree: "+issue.String()) {
			logged++
		}
	}
	return logged
}

// Seen returns how many times key was reported, including suppressed repeats.
func (r *Recorder) Seen(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[key]
}

// Reset forgets every key.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.seen = make(map[string]int)
	r.mu.Unlock()
}

func (r *Recorder) emit(level zerolog.Level, key, msg string) bool {
	r.mu.Lock()
	r.seen[key]++
	first := r.seen[key] == 1
	r.mu.Unlock()

	if first {
		r.logger.WithLevel(level).Str("key", key).Msg(msg)
	}
	return first
}
