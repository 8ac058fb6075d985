package matching

import (
	"github.com/talentmatch/talent-match/internal/rerank"
)

// Composition is a ranked page of records with index-aligned scores.
type Composition[T any] struct {
	Items      []T
	Scores     []*int
	Dropped    int
	DroppedIDs []string
}

// Compose joins ranked results back to records by primary key, in ranked order.
// Results whose ID matches no record are dropped and counted. At most limit
// items are returned.
func Compose[T any](ranked []rerank.Result, records []T, key func(*T) string, limit int) Composition[T] {
	byID := make(map[string]int, len(records))
	for i := range records {
		byID[key(&records[i])] = i
	}

	c := Composition[T]{
		Items:  make([]T, 0, min(len(ranked), max(limit, 0))),
		Scores: make([]*int, 0, min(len(ranked), max(limit, 0))),
	}
	for _, r := range ranked {
		idx, ok := byID[r.ID]
		if !ok {
			c.Dropped++
			c.DroppedIDs = append(c.DroppedIDs, r.ID)
			continue
		}
		if len(c.Items) >= limit {
			continue
		}
		score := ScoreFromRelevance(r.RelevanceScore)
		c.Items = append(c.Items, records[idx])
		c.Scores = append(c.Scores, &score)
	}
	return c
}
