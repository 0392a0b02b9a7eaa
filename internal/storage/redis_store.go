package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"leadscout/internal/id"
	"leadscout/internal/model"
)

// RedisStore keeps signals as JSON values indexed by a sorted set on creation time.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "leadscout", now: time.Now}
}

func (s *RedisStore) signalKey(id int64) string {
	return fmt.Sprintf("%s:signal:%d", s.prefix, id)
}

func (s *RedisStore) signalsZKey() string { return s.prefix + ":signals" }

func (s *RedisStore) responseKey(id int64) string {
	return fmt.Sprintf("%s:response:%d", s.prefix, id)
}

func (s *RedisStore) responsesZKey() string { return s.prefix + ":responses" }

// Insert stores the signal and adds it to the creation-time index.
func (s *RedisStore) Insert(ctx context.Context, sig *model.Signal) (int64, error) {
	sig.ID = id.New()
	if sig.IngestedAt.IsZero() {
		sig.IngestedAt = s.now().UTC()
	}
	if sig.Status == "" {
		sig.Status = model.StatusNew
	}
	b, err := json.Marshal(sig)
	if err != nil {
		return 0, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.signalKey(sig.ID), b, 0)
	pipe.ZAdd(ctx, s.signalsZKey(), redis.Z{Score: float64(sig.CreatedAt.UnixMilli()), Member: sig.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return sig.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id int64) (model.Signal, error) {
	var sig model.Signal
	b, err := s.rdb.Get(ctx, s.signalKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sig, ErrNotFound
	}
	if err != nil {
		return sig, err
	}
	err = json.Unmarshal(b, &sig)
	return sig, err
}

// ListAll walks the index from the newest entry.
func (s *RedisStore) ListAll(ctx context.Context, limit int) ([]model.Signal, error) {
	out, _, err := s.page(ctx, 0, int64(limitOr(limit)))
	return out, err
}

// List pages through the index until limit matching signals are found.
func (s *RedisStore) List(ctx context.Context, f Filter, limit int) ([]model.Signal, error) {
	n := limitOr(limit)
	out := make([]model.Signal, 0, n)
	for start := int64(0); len(out) < n; start += listPage {
		sigs, more, err := s.page(ctx, start, listPage)
		if err != nil {
			return nil, err
		}
		for _, sig := range sigs {
			if f.match(sig) && len(out) < n {
				out = append(out, sig)
			}
		}
		if !more {
			break
		}
	}
	return out, nil
}

const listPage = 200

// page loads count index entries from start. more is false once the index
// is exhausted.
func (s *RedisStore) page(ctx context.Context, start, count int64) ([]model.Signal, bool, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.signalsZKey(), start, start+count-1).Result()
	if err != nil {
		return nil, false, err
	}
	if len(ids) == 0 {
		return []model.Signal{}, false, nil
	}
	keys := make([]string, len(ids))
	for i, member := range ids {
		n, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("storage: bad index member %q: %w", member, err)
		}
		keys[i] = s.signalKey(n)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, false, err
	}
	out := make([]model.Signal, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// index entry without a value
			continue
		}
		var sig model.Signal
		if err := json.Unmarshal([]byte(str), &sig); err != nil {
			return nil, false, err
		}
		out = append(out, sig)
	}
	sortNewest(out)
	return out, int64(len(ids)) == count, nil
}

func (s *RedisStore) SetStatus(ctx context.Context, id int64, status model.Status) error {
	if err := validStatus(status); err != nil {
		return err
	}
	sig, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sig.Status = status
	b, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.signalKey(id), b, 0).Err()
}

func (s *RedisStore) InsertResponse(ctx context.Context, signalID int64, text string) (int64, error) {
	n, err := s.rdb.Exists(ctx, s.signalKey(signalID)).Result()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	r := model.OutreachResponse{ID: id.New(), SignalID: signalID, Text: text, GeneratedAt: s.now().UTC()}
	b, err := json.Marshal(r)
	if err != nil {
		return 0, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.responseKey(r.ID), b, 0)
	pipe.ZAdd(ctx, s.responsesZKey(), redis.Z{Score: float64(r.GeneratedAt.UnixMilli()), Member: r.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return r.ID, nil
}

func (s *RedisStore) ListResponses(ctx context.Context, limit int) ([]model.OutreachResponse, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.responsesZKey(), 0, int64(limitOr(limit)-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.OutreachResponse, 0, len(ids))
	for _, member := range ids {
		n, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: bad index member %q: %w", member, err)
		}
		b, err := s.rdb.Get(ctx, s.responseKey(n)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var r model.OutreachResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		if sig, err := s.Get(ctx, r.SignalID); err == nil {
			r.SignalTitle, r.SignalPlatform = sig.Title, sig.Platform
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) Close() error { return nil }

// RedisDeduper claims keys with SET NX and an expiry.
type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string) (bool, error) {
	return d.rdb.SetNX(ctx, seenKey(key), "1", d.ttl).Result()
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	return d.rdb.Del(ctx, seenKey(key)).Err()
}

func seenKey(key string) string { return "leadscout:seen:" + key }
