package storage

import (
	"context"
	"sync"
	"time"

	"leadscout/internal/id"
	"leadscout/internal/model"
)

// MemoryStore keeps everything in process memory. Used for tests and dry runs.
type MemoryStore struct {
	mu        sync.RWMutex
	signals   map[int64]model.Signal
	responses []model.OutreachResponse
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[int64]model.Signal), now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, s *model.Signal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = id.New()
	if s.IngestedAt.IsZero() {
		s.IngestedAt = m.now().UTC()
	}
	if s.Status == "" {
		s.Status = model.StatusNew
	}
	cp := *s
	cp.Keywords = append([]string(nil), s.Keywords...)
	m.signals[s.ID] = cp
	return s.ID, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (model.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.signals[id]
	if !ok {
		return model.Signal{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) ListAll(ctx context.Context, limit int) ([]model.Signal, error) {
	return m.List(ctx, Filter{}, limit)
}

func (m *MemoryStore) List(_ context.Context, f Filter, limit int) ([]model.Signal, error) {
	m.mu.RLock()
	out := make([]model.Signal, 0, len(m.signals))
	for _, s := range m.signals {
		if f.match(s) {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()
	sortNewest(out)
	if n := limitOr(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryStore) SetStatus(_ context.Context, id int64, status model.Status) error {
	if err := validStatus(status); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.signals[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	m.signals[id] = s
	return nil
}

func (m *MemoryStore) InsertResponse(_ context.Context, signalID int64, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.signals[signalID]; !ok {
		return 0, ErrNotFound
	}
	r := model.OutreachResponse{ID: id.New(), SignalID: signalID, Text: text, GeneratedAt: m.now().UTC()}
	m.responses = append(m.responses, r)
	return r.ID, nil
}

func (m *MemoryStore) ListResponses(_ context.Context, limit int) ([]model.OutreachResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := limitOr(limit)
	out := make([]model.OutreachResponse, 0, min(n, len(m.responses)))
	for i := len(m.responses) - 1; i >= 0 && len(out) < n; i-- {
		r := m.responses[i]
		s := m.signals[r.SignalID]
		r.SignalTitle, r.SignalPlatform = s.Title, s.Platform
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

// MemoryDeduper is a process-local Deduper with expiry.
type MemoryDeduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDeduper) Claim(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if exp, ok := d.seen[key]; ok && (d.ttl <= 0 || now.Before(exp)) {
		return false, nil
	}
	d.seen[key] = now.Add(d.ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
	return nil
}
