package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"socialpulse/adapters/excel"
	"socialpulse/internal/normalize"
	"socialpulse/internal/testkit"
	"socialpulse/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSignals(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signals.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	rows := []ports.Row{
		{"Platform": "YouTube", "Region": "UK", "Content_Type": "Video", "Hashtag": "#a", "Decayed_ERR": 2.5},
		{"Platform": "TikTok", "Region": "UK", "Content_Type": "Video", "Hashtag": "#a", "Decayed_ERR": 6.25},
		{"Platform": "TikTok", "Region": "UK", "Content_Type": "Video", "Hashtag": "#a", "Decayed_ERR": 1},
		{"Platform": "Twitter", "Region": "USA", "Content_Type": "Reel", "Hashtag": "#b", "Decayed_ERR": 9},
	}
	require.NoError(t, excel.WriteCSV(f, normalize.SignalHeaders, rows))
	return path
}

func TestCalcCommand(t *testing.T) {
	out, err := run(t, "calc", "120", "14", "9", "2400")
	require.NoError(t, err)
	assert.Contains(t, out, "ERR:       5.96%")
	assert.Contains(t, out, "Tier:      High")
	assert.Contains(t, out, "Label:     High Performance")
	assert.Contains(t, out, "Anomalous: false")

	out, err = run(t, "calc", "0", "0", "0", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Waiting for data...")

	_, err = run(t, "calc", "1", "2")
	assert.Error(t, err)
}

func TestRankCommand(t *testing.T) {
	path := writeSignals(t)

	out, err := run(t, "rank", "--signals", path, "--region", "UK", "--hashtag", "#a")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "TikTok")
	assert.Contains(t, lines[1], "6.25")
	assert.Contains(t, lines[1], "Best Choice")
	assert.Contains(t, lines[2], "YouTube")
	assert.Contains(t, lines[2], "Strong Alternative")

	out, err = run(t, "rank", "--signals", path, "--region", "Mars")
	require.NoError(t, err)
	assert.Equal(t, "No data for this combination\n", out)
}

func TestRankCommandJSON(t *testing.T) {
	out, err := run(t, "rank", "--signals", writeSignals(t), "--json")
	require.NoError(t, err)

	var ranking struct {
		Platforms []struct {
			Platform string  `json:"platform"`
			Score    float64 `json:"score"`
		} `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ranking))
	require.Len(t, ranking.Platforms, 3)
	assert.Equal(t, "Twitter", ranking.Platforms[0].Platform)
}

func TestSummaryCommand(t *testing.T) {
	postsPath, _, err := testkit.NewTestKit().WriteFixtures(t.TempDir())
	require.NoError(t, err)

	out, err := run(t, "summary", "--posts", postsPath)
	require.NoError(t, err)
	var all map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Equal(t, all["totalPosts"], all["filteredPosts"])

	region := all["regions"].([]interface{})[0].(map[string]interface{})["region"].(string)
	out, err = run(t, "summary", "--posts", postsPath, "--region", region)
	require.NoError(t, err)
	var filtered map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &filtered))
	assert.Less(t, filtered["filteredPosts"].(float64), all["filteredPosts"].(float64))
	assert.Equal(t, float64(1), filtered["activeFilters"])
}

func TestSummaryCommandMissingFile(t *testing.T) {
	_, err := run(t, "summary", "--posts", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestDeriveSignalsCommand(t *testing.T) {
	dir := t.TempDir()
	postsPath := filepath.Join(dir, "posts.csv")
	require.NoError(t, os.WriteFile(postsPath, []byte(
		"Post_Date,Platform,Region,Content_Type,Hashtag,Views,ERR%\n"+
			"2024-01-31,TikTok,UK,Video,#a,100,10\n"+
			"2024-01-01,YouTube,UK,Video,#a,100,10\n"+
			"not a date,Twitter,UK,Video,#a,100,10\n"), 0o644))

	out, err := run(t, "derive-signals", "--posts", postsPath, "--as-of", "2024-01-31")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, normalize.SignalHeaders, records[0])
	assert.Equal(t, []string{"TikTok", "#a", "Video", "UK", "10"}, records[1])
	assert.Equal(t, "YouTube", records[2][0])
	assert.Equal(t, "9.14", records[2][4])

	xlsx := filepath.Join(dir, "signals.xlsx")
	_, err = run(t, "derive-signals", "--posts", postsPath, "--out", xlsx)
	require.NoError(t, err)
	rows, err := excel.NewDataReader(xlsx).ReadRows(t.Context())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDeriveSignalsRejectsBadDate(t *testing.T) {
	_, err := run(t, "derive-signals", "--as-of", "31/01/2024", "--synthetic-posts", "10")
	assert.Error(t, err)
}
