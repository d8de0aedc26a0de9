package recommend

import (
	"testing"

	"socialpulse/domain/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signal(platform, region, contentType string, score float64) engagement.PlatformSignal {
	return engagement.PlatformSignal{
		Platform: platform, Region: region, ContentType: contentType,
		Hashtag: engagement.DefaultHashtag, DecayedERR: score,
	}
}

func signals() []engagement.PlatformSignal {
	return []engagement.PlatformSignal{
		signal("TikTok", "USA", "Video", 4.0),
		signal("YouTube", "USA", "Video", 6.5),
		signal("TikTok", "USA", "Video", 8.0),
		signal("Instagram", "UK", "Reel", 9.9),
		signal("Twitter", "USA", "Video", 6.5),
		signal("Instagram", "USA", "Video", 6.5),
	}
}

func TestRankPlatformsKeepsMaximum(t *testing.T) {
	f, err := engagement.NewRecommenderFilters().Toggle(engagement.DimRegion, "USA")
	require.NoError(t, err)

	r := RankPlatforms(signals(), f)
	require.True(t, r.Available())
	assert.Equal(t, []PlatformScore{
		{Platform: "TikTok", Score: 8.0},
		{Platform: "YouTube", Score: 6.5},
		{Platform: "Twitter", Score: 6.5},
		{Platform: "Instagram", Score: 6.5},
	}, r.Platforms)

	top, ok := r.Best()
	assert.True(t, ok)
	assert.Equal(t, "TikTok", top.Platform)
}

func TestRankPlatformsUnfiltered(t *testing.T) {
	r := RankPlatforms(signals(), engagement.NewRecommenderFilters())
	require.Len(t, r.Platforms, 4)
	assert.Equal(t, PlatformScore{Platform: "Instagram", Score: 9.9}, r.Platforms[0])
}

func TestRankPlatformsEmptyIsNotAnError(t *testing.T) {
	f, err := engagement.NewRecommenderFilters().Set(engagement.DimContentType, "Podcast")
	require.NoError(t, err)

	r := RankPlatforms(signals(), f)
	assert.False(t, r.Available())
	assert.NotNil(t, r.Platforms)
	_, ok := r.Best()
	assert.False(t, ok)

	assert.False(t, RankPlatforms(nil, engagement.NewRecommenderFilters()).Available())
}

func TestRankPlatformsIgnoresPlatformConstraint(t *testing.T) {
	dashboard, err := engagement.NewDashboardFilters().Set(engagement.DimPlatform, "YouTube")
	require.NoError(t, err)

	r := RankPlatforms(signals(), dashboard)
	assert.Len(t, r.Platforms, 4)
	assert.False(t, r.Filters.Allows(engagement.DimPlatform))
}

func TestRankPlatformsNegativeScores(t *testing.T) {
	r := RankPlatforms([]engagement.PlatformSignal{
		signal("A", "USA", "Video", -3),
		signal("A", "USA", "Video", -1),
	}, engagement.NewRecommenderFilters())
	assert.Equal(t, []PlatformScore{{Platform: "A", Score: -1}}, r.Platforms)
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "Best Choice", RankLabel(0))
	assert.Equal(t, "Strong Alternative", RankLabel(1))
	assert.Equal(t, "Viable Option", RankLabel(2))
	assert.Equal(t, "Low Potential", RankLabel(3))
	assert.Equal(t, "Low Potential", RankLabel(12))
}

func TestRankPlatformsZeroScoreIsNotEmpty(t *testing.T) {
	zero := []engagement.PlatformSignal{signal("Twitter", "UK", "Video", 0)}

	f, err := engagement.NewRecommenderFilters().Toggle(engagement.DimRegion, "UK")
	require.NoError(t, err)
	r := RankPlatforms(zero, f)
	assert.True(t, r.Available())
	assert.Equal(t, []PlatformScore{{Platform: "Twitter", Score: 0}}, r.Platforms)
	top, ok := r.Best()
	assert.True(t, ok)
	assert.Equal(t, "Twitter", top.Platform)

	f, err = f.Toggle(engagement.DimRegion, "Mars")
	require.NoError(t, err)
	none := RankPlatforms(zero, f)
	assert.False(t, none.Available())
	assert.Empty(t, none.Platforms)
	_, ok = none.Best()
	assert.False(t, ok)
}
