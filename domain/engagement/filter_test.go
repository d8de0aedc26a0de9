package engagement

import (
	"encoding/json"
	"testing"

	"socialpulse/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts() []PostRecord {
	return []PostRecord{
		{ID: 0, Region: "US", Platform: "A"},
		{ID: 1, Region: "US", Platform: "B"},
		{ID: 2, Region: "UK", Platform: "A"},
	}
}

func TestApplyConjunction(t *testing.T) {
	f := NewDashboardFilters()
	f, err := f.Set(DimRegion, "US")
	require.NoError(t, err)
	f, err = f.Set(DimPlatform, "A")
	require.NoError(t, err)

	got := Apply(samplePosts(), f)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ID)
}

func TestApplyUnconstrainedKeepsOrderAndDoesNotAlias(t *testing.T) {
	posts := samplePosts()
	got := Apply(posts, NewDashboardFilters())
	require.Equal(t, posts, got)

	got[0].Region = "changed"
	assert.Equal(t, "US", posts[0].Region, "input must not be aliased")
}

func TestApplyZeroValueFilterSet(t *testing.T) {
	var f FilterSet
	assert.Len(t, Apply(samplePosts(), f), 3)
}

func TestToggle(t *testing.T) {
	f := NewDashboardFilters()

	selected, err := f.Toggle(DimRegion, "US")
	require.NoError(t, err)
	v, ok := selected.Value(DimRegion)
	assert.True(t, ok)
	assert.Equal(t, "US", v)
	assert.Equal(t, 0, f.ActiveCount(), "receiver must not change")

	replaced, err := selected.Toggle(DimRegion, "UK")
	require.NoError(t, err)
	v, _ = replaced.Value(DimRegion)
	assert.Equal(t, "UK", v)

	cleared, err := replaced.Toggle(DimRegion, "UK")
	require.NoError(t, err)
	_, ok = cleared.Value(DimRegion)
	assert.False(t, ok)
	assert.Equal(t, 0, cleared.ActiveCount())
}

func TestRecommenderFiltersRejectPlatform(t *testing.T) {
	f := NewRecommenderFilters()
	_, err := f.Toggle(DimPlatform, "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionNotAllowed)

	_, err = f.Set(Dimension("language"), "en")
	assert.ErrorIs(t, err, core.ErrUnknownDimension)
}

func TestClearAllAndActiveCount(t *testing.T) {
	f := NewDashboardFilters()
	f, _ = f.Set(DimRegion, "US")
	f, _ = f.Set(DimHashtag, "#Fun")
	assert.Equal(t, 2, f.ActiveCount())

	cleared := f.ClearAll()
	assert.Equal(t, 0, cleared.ActiveCount())
	assert.Equal(t, DashboardDimensions, cleared.Dimensions())
}

func TestRestrictDropsPlatform(t *testing.T) {
	f := NewDashboardFilters()
	f, _ = f.Set(DimRegion, "US")
	f, _ = f.Set(DimPlatform, "A")

	r := f.Restrict(RecommenderDimensions...)
	assert.Equal(t, 1, r.ActiveCount())
	assert.False(t, r.Allows(DimPlatform))
}

func TestFilterSetJSON(t *testing.T) {
	f := NewRecommenderFilters()
	f, _ = f.Set(DimContentType, "Video")

	raw, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"region":null,"contentType":"Video","hashtag":null}`, string(raw))
}

func TestParseDimension(t *testing.T) {
	for _, in := range []string{"contentType", "content_type", "Content_Type"} {
		d, err := ParseDimension(in)
		require.NoError(t, err)
		assert.Equal(t, DimContentType, d)
	}
	_, err := ParseDimension("views")
	assert.True(t, core.IsDimensionError(err))
}
