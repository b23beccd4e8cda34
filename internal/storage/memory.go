package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
)

// Memory is an in-memory append-only session history. It backs handler and
// tracker tests and the replay client's dry-run mode.
type Memory struct {
	mu        sync.Mutex
	summaries []models.SessionSummary
}

// NewMemory returns an empty in-memory history.
func NewMemory() *Memory {
	return &Memory{}
}

// AppendSessionSummary appends a summary.
func (m *Memory) AppendSessionSummary(_ context.Context, s models.SessionSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, s)
	return nil
}

// ListSessionSummaries returns summaries saved within [start, end), in
// append order.
func (m *Memory) ListSessionSummaries(_ context.Context, start, end time.Time) ([]models.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.SessionSummary
	for _, s := range m.summaries {
		if !s.SavedAt.Before(start) && s.SavedAt.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

// AllSessionSummaries returns the full history in append order.
func (m *Memory) AllSessionSummaries(_ context.Context) ([]models.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.SessionSummary, len(m.summaries))
	copy(out, m.summaries)
	return out, nil
}

// Len reports the number of stored summaries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summaries)
}
