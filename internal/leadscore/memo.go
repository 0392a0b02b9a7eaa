package leadscore

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Entry is what the memo keeps per signal id.
type Entry struct {
	Score       int      `json:"score"`
	Competitors []string `json:"competitors,omitempty"`
}

// Memo keeps the latest score and competitor mentions per signal id. Every
// analytics input lives here so engines sharing a memo agree.
type Memo interface {
	Put(ctx context.Context, id int64, e Entry) error
	Entries(ctx context.Context) (map[int64]Entry, error)
}

// MemoryMemo lives for the process lifetime.
type MemoryMemo struct {
	mu      sync.RWMutex
	entries map[int64]Entry
}

func NewMemoryMemo() *MemoryMemo {
	return &MemoryMemo{entries: make(map[int64]Entry)}
}

func (m *MemoryMemo) Put(_ context.Context, id int64, e Entry) error {
	e.Competitors = slices.Clone(e.Competitors)
	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryMemo) Entries(context.Context) (map[int64]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]Entry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

// RedisMemo shares entries between processes through one hash of JSON values.
type RedisMemo struct {
	rdb *redis.Client
	key string
}

func NewRedisMemo(rdb *redis.Client) *RedisMemo {
	return &RedisMemo{rdb: rdb, key: "leadscout:leadscores"}
}

func (m *RedisMemo) Put(ctx context.Context, id int64, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return m.rdb.HSet(ctx, m.key, strconv.FormatInt(id, 10), b).Err()
}

func (m *RedisMemo) Entries(ctx context.Context) (map[int64]Entry, error) {
	raw, err := m.rdb.HGetAll(ctx, m.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Entry, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		e, ok := decodeEntry(v)
		if !ok {
			continue
		}
		out[id] = e
	}
	return out, nil
}

// decodeEntry also accepts bare integer scores written by older versions.
func decodeEntry(v string) (Entry, bool) {
	if sc, err := strconv.Atoi(v); err == nil {
		return Entry{Score: sc}, true
	}
	var e Entry
	if err := json.Unmarshal([]byte(v), &e); err != nil {
		return Entry{}, false
	}
	return e, true
}
