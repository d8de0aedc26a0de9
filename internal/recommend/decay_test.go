package recommend

import (
	"math"
	"testing"
	"time"

	"socialpulse/domain/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecay(t *testing.T) {
	assert.Equal(t, 5.0, Decay(5, DefaultDecayRate, 0))
	assert.Equal(t, 5.0, Decay(5, DefaultDecayRate, -10))
	assert.InDelta(t, 10*math.Exp(-0.3), Decay(10, DefaultDecayRate, 100), 1e-12)
}

func TestDeriveSignals(t *testing.T) {
	posts := []engagement.PostRecord{
		{Date: "2024-01-01", Platform: "TikTok", Region: "USA", ContentType: "Video", Hashtag: "#a", ERR: 10},
		{Date: "garbage", Platform: "YouTube", ERR: 50},
		{Date: "2024-04-10", Platform: "YouTube", Region: "UK", ContentType: "Reel", Hashtag: "#b", ERR: 4},
	}
	asOf, ok := LatestDate(posts)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), asOf)

	got := DeriveSignals(posts, asOf.Add(15*time.Hour), 0)
	require.Len(t, got, 2)

	// 2024-01-01 is 100 days before 2024-04-10
	assert.Equal(t, engagement.PlatformSignal{
		Platform: "TikTok", Region: "USA", ContentType: "Video", Hashtag: "#a",
		DecayedERR: engagement.Round2(10 * math.Exp(-0.3)),
	}, got[0])
	assert.Equal(t, 4.0, got[1].DecayedERR)
}

func TestLatestDateEmpty(t *testing.T) {
	_, ok := LatestDate([]engagement.PostRecord{{Date: "n/a"}})
	assert.False(t, ok)
}
