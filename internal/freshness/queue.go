// Package freshness tracks records whose embeddings are stale and recomputes them.
package freshness

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Kind is the type of record an embedding belongs to.
type Kind string

// Record kinds
const (
	KindResume  Kind = "resume"
	KindProfile Kind = "profile"
	KindJob     Kind = "job"
)

// Item is one record awaiting an embedding refresh.
type Item struct {
	Kind Kind
	ID   string
}

// Resume returns the item for a resume.
func Resume(id uuid.UUID) Item { return Item{Kind: KindResume, ID: id.String()} }

// Profile returns the item for a candidate profile.
func Profile(id uuid.UUID) Item { return Item{Kind: KindProfile, ID: id.String()} }

// Job returns the item for a job posting.
func Job(id int64) Item { return Item{Kind: KindJob, ID: strconv.FormatInt(id, 10)} }

func (i Item) String() string {
	return string(i.Kind) + ":" + i.ID
}

// ParseItem parses the "kind:id" form produced by Item.String.
func ParseItem(s string) (Item, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Item{}, fmt.Errorf("malformed queue item %q", s)
	}
	switch Kind(kind) {
	case KindResume, KindProfile, KindJob:
	default:
		return Item{}, fmt.Errorf("unknown record kind %q", kind)
	}
	return Item{Kind: Kind(kind), ID: id}, nil
}

// Queue is a set of stale records. Enqueueing an item twice keeps one entry.
type Queue interface {
	Enqueue(ctx context.Context, items ...Item) error
	// Pop removes and returns up to n items.
	Pop(ctx context.Context, n int) ([]Item, error)
	Len(ctx context.Context) (int64, error)
}

// DefaultRedisKey is the set holding stale records.
const DefaultRedisKey = "talent_match:stale_embeddings"

// RedisQueue stores items in a Redis set so every server replica shares one queue.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue returns a queue backed by the set at key.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, items ...Item) error {
	if len(items) == 0 {
		return nil
	}
	members := make([]any, 0, len(items))
	for _, it := range items {
		members = append(members, it.String())
	}
	if err := q.rdb.SAdd(ctx, q.key, members...).Err(); err != nil {
		return fmt.Errorf("failed to enqueue stale embeddings: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, n int) ([]Item, error) {
	members, err := q.rdb.SPopN(ctx, q.key, int64(n)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to pop stale embeddings: %w", err)
	}
	items := make([]Item, 0, len(members))
	for _, m := range members {
		it, err := ParseItem(m)
		if err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.SCard(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count stale embeddings: %w", err)
	}
	return n, nil
}

// MemoryQueue is a process-local queue for single-instance deployments and tests.
type MemoryQueue struct {
	mu    sync.Mutex
	items map[Item]struct{}
}

// NewMemoryQueue returns an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{items: make(map[Item]struct{})}
}

func (q *MemoryQueue) Enqueue(_ context.Context, items ...Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, it := range items {
		q.items[it] = struct{}{}
	}
	return nil
}

// Pop returns items in lexical order so draining is deterministic.
func (q *MemoryQueue) Pop(_ context.Context, n int) ([]Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	all := make([]Item, 0, len(q.items))
	for it := range q.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].String() < all[j].String() })
	if n < len(all) {
		all = all[:n]
	}
	for _, it := range all {
		delete(q.items, it)
	}
	return all, nil
}

func (q *MemoryQueue) Len(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}
