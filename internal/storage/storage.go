// Package storage persists Signals and generated outreach responses.
package storage

import (
	"context"
	"errors"
	"sort"

	"leadscout/internal/model"
)

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// DefaultLimit is used by ListAll and ListResponses when limit <= 0.
const DefaultLimit = 100

// ErrNotFound is returned when a signal id does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is the persistence collaborator of the pipeline.
type Store interface {
	// Insert assigns s.ID and returns it.
	Insert(ctx context.Context, s *model.Signal) (int64, error)
	Get(ctx context.Context, id int64) (model.Signal, error)
	// ListAll returns signals newest first.
	ListAll(ctx context.Context, limit int) ([]model.Signal, error)
	// List is ListAll restricted to signals matching f. The limit applies
	// after filtering.
	List(ctx context.Context, f Filter, limit int) ([]model.Signal, error)
	SetStatus(ctx context.Context, id int64, status model.Status) error
	InsertResponse(ctx context.Context, signalID int64, text string) (int64, error)
	// ListResponses returns responses newest first, joined with their signal.
	ListResponses(ctx context.Context, limit int) ([]model.OutreachResponse, error)
	Close() error
}

// Deduper remembers which posts were already ingested.
type Deduper interface {
	// Claim marks key as seen and reports whether it was new.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets a claim so the post is treated as new again.
	Release(ctx context.Context, key string) error
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Platform    model.Platform
	MinPriority model.Priority
}

func (f Filter) match(s model.Signal) bool {
	if f.Platform != "" && s.Platform != f.Platform {
		return false
	}
	return f.MinPriority == "" || s.Priority.Rank() >= f.MinPriority.Rank()
}

func (f Filter) priorities() []string {
	if f.MinPriority == "" {
		return nil
	}
	var out []string
	for _, p := range f.MinPriority.AtLeast() {
		out = append(out, string(p))
	}
	return out
}

func limitOr(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// sortNewest orders by CreatedAt desc, then id desc.
func sortNewest(sigs []model.Signal) {
	sort.SliceStable(sigs, func(i, j int) bool {
		if !sigs[i].CreatedAt.Equal(sigs[j].CreatedAt) {
			return sigs[i].CreatedAt.After(sigs[j].CreatedAt)
		}
		return sigs[i].ID > sigs[j].ID
	})
}

func validStatus(status model.Status) error {
	if !status.Valid() {
		return errors.New("storage: invalid status " + string(status))
	}
	return nil
}
