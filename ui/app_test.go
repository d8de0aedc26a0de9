package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"socialpulse/app"
	"socialpulse/domain/engagement"
	"socialpulse/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, store *dataset.Store) *App {
	t.Helper()
	a, err := NewApp(Config{}, app.NewDashboardService(store, 0), store, nil)
	require.NoError(t, err)
	return a
}

func get(a *App, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestDashboardPage(t *testing.T) {
	a := newTestApp(t, loadedStore(t))

	w := get(a, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "3 of 3 posts")
	assert.Contains(t, body, "Views by Platform")
	assert.Contains(t, body, `href="?region=UK"`)
	assert.Contains(t, body, "</html>")

	w = get(a, "/?region=UK")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "2 of 3 posts")
	assert.Contains(t, body, `class="chip active" href="?"`)
}

func TestDashboardPageNoMatch(t *testing.T) {
	w := get(newTestApp(t, loadedStore(t)), "/?region=Mars")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts match the selected filters.")
}

func TestRecommendPage(t *testing.T) {
	a := newTestApp(t, loadedStore(t))

	w := get(a, "/recommend?region=UK&contentType=Video&hashtag=%23a")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "YouTube")
	assert.Contains(t, body, "Best Choice")
	assert.NotContains(t, body, "No data for this combination")

	w = get(a, "/recommend?region=USA")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data for this combination")
}

func TestCalculatorPage(t *testing.T) {
	a := newTestApp(t, dataset.NewStore())

	w := get(a, "/calculator")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Waiting for data...")

	w = get(a, "/calculator?likes=50&comments=5&shares=5&views=500")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Viral Status")
}

func TestAboutPageRendersMarkdown(t *testing.T) {
	w := get(newTestApp(t, dataset.NewStore()), "/about")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<h1 id="about-socialpulse">About SocialPulse</h1>`)
	assert.Contains(t, body, "<table>")
}

func TestPagesWhileLoading(t *testing.T) {
	a := newTestApp(t, dataset.NewStore())
	w := get(a, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "still loading")
}

func TestPagesAfterFailedLoad(t *testing.T) {
	store := dataset.NewStore()
	_, err := store.Load(context.Background(), failingSource{}, nil)
	require.Error(t, err)

	w := get(newTestApp(t, store), "/recommend")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "disk on fire")
	assert.NotContains(t, w.Body.String(), "still loading")
}

func TestFilterValues(t *testing.T) {
	q := url.Values{"content_type": {" Video "}, "region": {""}, "platform": {"TikTok"}}
	got := filterValues(q, engagement.DashboardDimensions)
	assert.Equal(t, map[string]string{"contentType": "Video", "platform": "TikTok"}, got)
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{950, "950"},
		{9_999, "9999"},
		{12_345, "12.3K"},
		{4_500_000, "4.5M"},
		{1_200_000_000, "1.2B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCount(tt.in))
	}
}
