package matching

import (
	"math"
	"math/rand/v2"

	"github.com/talentmatch/talent-match/internal/config"
)

// Placeholder score range used when fallback scoring is enabled
const (
	PlaceholderMin = 80
	PlaceholderMax = 100
)

// ScoreFromRelevance maps a relevance score in [0,1] to a percentage.
func ScoreFromRelevance(relevance float64) int {
	if math.IsNaN(relevance) || relevance <= 0 {
		return 0
	}
	score := int(math.Floor(relevance * 100))
	return min(score, 100)
}

// FallbackScorer scores results that were never ranked against a query.
type FallbackScorer interface {
	Scores(n int) []*int
}

// Unscored leaves every fallback result without a score.
type Unscored struct{}

// Scores returns n nil scores.
func (Unscored) Scores(n int) []*int {
	return make([]*int, n)
}

// Placeholder assigns a uniform random score in [PlaceholderMin, PlaceholderMax]
// for clients that cannot render a missing score.
type Placeholder struct {
	Rand *rand.Rand
}

// Scores returns n random scores.
func (p Placeholder) Scores(n int) []*int {
	scores := make([]*int, n)
	for i := range scores {
		v := PlaceholderMin + p.intN(PlaceholderMax-PlaceholderMin+1)
		scores[i] = &v
	}
	return scores
}

// NewFallbackScorer returns the scorer for a matching.fallback_scores mode.
func NewFallbackScorer(mode string) FallbackScorer {
	if mode == config.FallbackScoresPlaceholder {
		return Placeholder{}
	}
	return Unscored{}
}

func (p Placeholder) intN(n int) int {
	if p.Rand != nil {
		return p.Rand.IntN(n)
	}
	return rand.IntN(n)
}
