package ui

import (
	"context"
	"testing"

	"socialpulse/app"
	"socialpulse/internal/dataset"
	"socialpulse/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postRow(date, platform, region, contentType, hashtag string, views, likes int, err float64) ports.Row {
	return ports.Row{
		"Post_Date":    date,
		"Platform":     platform,
		"Region":       region,
		"Content_Type": contentType,
		"Hashtag":      hashtag,
		"Views":        views,
		"Likes":        likes,
		"Comments":     0,
		"Shares":       0,
		"ERR%":         err,
	}
}

func signalRow(platform, region, contentType, hashtag string, decayed float64) ports.Row {
	return ports.Row{
		"Platform":     platform,
		"Region":       region,
		"Content_Type": contentType,
		"Hashtag":      hashtag,
		"Decayed_ERR":  decayed,
	}
}

func fixtureSources() (posts, signals ports.StaticSource) {
	posts = ports.StaticSource{Label: "posts", Rows: []ports.Row{
		postRow("2024-01-01", "TikTok", "USA", "Video", "#a", 100, 5, 5),
		postRow("2024-01-02", "YouTube", "UK", "Video", "#a", 300, 3, 1),
		postRow("2024-01-02", "TikTok", "UK", "Reel", "#b", 200, 6, 3),
	}}
	signals = ports.StaticSource{Label: "signals", Rows: []ports.Row{
		signalRow("YouTube", "UK", "Video", "#a", 2.345678),
		signalRow("TikTok", "UK", "Reel", "#b", 7),
		signalRow("Twitter", "UK", "Video", "#a", 1),
	}}
	return posts, signals
}

func loadedStore(t *testing.T) *dataset.Store {
	t.Helper()
	store := dataset.NewStore()
	posts, signals := fixtureSources()
	_, err := store.Load(context.Background(), posts, signals)
	require.NoError(t, err)
	return store
}

func newTestServer(store *dataset.Store) *Server {
	return NewServer(app.NewDashboardService(store, 0), store, nil)
}
