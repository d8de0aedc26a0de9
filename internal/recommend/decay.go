package recommend

import (
	"math"
	"time"

	"socialpulse/domain/core"
	"socialpulse/domain/engagement"
)

// DefaultDecayRate is the daily decay applied to ERR when deriving signals.
const DefaultDecayRate = 0.003

// Decay discounts an ERR value by its age: err × e^(−rate × ageDays).
// Negative ages count as zero.
func Decay(err, rate, ageDays float64) float64 {
	return err * math.Exp(-rate*math.Max(ageDays, 0))
}

// LatestDate returns the most recent parseable post date.
func LatestDate(posts []engagement.PostRecord) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, p := range posts {
		t, ok := core.ParseCalendarDate(p.Date)
		if ok && (!found || t.After(latest)) {
			latest, found = t, true
		}
	}
	return latest, found
}

// DeriveSignals builds the platform signal table from posts, one signal per post,
// decaying each ERR by the post's age relative to asOf. Posts whose date cannot be
// placed on a calendar carry no age and are skipped. A non-positive rate selects
// DefaultDecayRate.
func DeriveSignals(posts []engagement.PostRecord, asOf time.Time, rate float64) []engagement.PlatformSignal {
	if rate <= 0 {
		rate = DefaultDecayRate
	}
	y, m, d := asOf.Date()
	asOf = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	out := make([]engagement.PlatformSignal, 0, len(posts))
	for _, p := range posts {
		date, ok := core.ParseCalendarDate(p.Date)
		if !ok {
			continue
		}
		out = append(out, engagement.PlatformSignal{
			Platform:    p.Platform,
			Hashtag:     p.Hashtag,
			ContentType: p.ContentType,
			Region:      p.Region,
			DecayedERR:  engagement.Round2(Decay(p.ERR, rate, core.DaysBetween(date, asOf))),
		})
	}
	return out
}
