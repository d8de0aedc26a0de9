// Package recommend ranks platforms by the best decayed engagement score observed
// under the recommender's filters.
package recommend

import (
	"socialpulse/domain/engagement"
	"socialpulse/internal/aggregate"
)

// NoDataMessage is shown when no signal survives the filters.
const NoDataMessage = "No data for this combination"

// PlatformScore is one ranked platform.
type PlatformScore struct {
	Platform string  `json:"platform"`
	Score    float64 `json:"score"`
}

// Ranking is the outcome of a ranking pass. An empty ranking is a valid result
// and must be surfaced as "no recommendation available".
type Ranking struct {
	Filters   engagement.FilterSet `json:"filters"`
	Platforms []PlatformScore      `json:"platforms"`
}

// Available reports whether at least one platform was ranked.
func (r Ranking) Available() bool {
	return len(r.Platforms) > 0
}

// Best returns the top platform, if any.
func (r Ranking) Best() (PlatformScore, bool) {
	if !r.Available() {
		return PlatformScore{}, false
	}
	return r.Platforms[0], true
}

type best struct {
	seen  bool
	score float64
}

// RankPlatforms filters signals on region, content type and hashtag, keeps the maximum
// decayed ERR per platform and orders platforms by it, highest first.
// Any platform constraint in f is ignored. Equal scores keep first-encountered order.
func RankPlatforms(signals []engagement.PlatformSignal, f engagement.FilterSet) Ranking {
	f = f.Restrict(engagement.RecommenderDimensions...)
	matching := engagement.Apply(signals, f)

	platforms := aggregate.Pipeline[engagement.PlatformSignal, string, best, PlatformScore]{
		Key:  func(s engagement.PlatformSignal) string { return s.Platform },
		Seed: func() best { return best{} },
		Combine: func(b best, s engagement.PlatformSignal) best {
			if !b.seen || s.DecayedERR > b.score {
				return best{seen: true, score: s.DecayedERR}
			}
			return b
		},
		Finalize: func(p string, b best) PlatformScore { return PlatformScore{Platform: p, Score: b.score} },
		Compare: func(a, b PlatformScore) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			}
			return 0
		},
	}.Run(matching)

	return Ranking{Filters: f, Platforms: platforms}
}

// RankLabel names a position in the ranking.
func RankLabel(position int) string {
	switch position {
	case 0:
		return "Best Choice"
	case 1:
		return "Strong Alternative"
	case 2:
		return "Viable Option"
	}
	return "Low Potential"
}
