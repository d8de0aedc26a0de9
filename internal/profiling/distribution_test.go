package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeEmpty(t *testing.T) {
	assert.Equal(t, Profile{}, Analyze(nil))
}

func TestAnalyzeSingleValue(t *testing.T) {
	p := Analyze([]float64{4.2})
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, 4.2, p.Mean)
	assert.Equal(t, 4.2, p.Median)
	assert.Zero(t, p.StdDev)
	assert.Zero(t, p.Skewness)
	assert.Zero(t, p.Outliers)
	assert.False(t, p.IsNormal)
}

func TestAnalyzeQuartilesAndOutliers(t *testing.T) {
	data := []float64{5, 1, 2, 3, 4, 2, 3, 4, 3, 40}
	p := Analyze(data)

	assert.Equal(t, 10, p.Count)
	assert.Equal(t, 1.0, p.Min)
	assert.Equal(t, 40.0, p.Max)
	assert.Equal(t, 3.0, p.Median)
	assert.Equal(t, 6.7, p.Mean)
	assert.Equal(t, 1, p.Outliers)
	assert.Greater(t, p.Skewness, 1.0)
	assert.False(t, p.IsNormal)
	assert.Equal(t, 40.0, data[9], "input must not be reordered")
}

func TestAnalyzeConstantData(t *testing.T) {
	p := Analyze([]float64{2, 2, 2, 2, 2})
	assert.Zero(t, p.StdDev)
	assert.Zero(t, p.Skewness)
	assert.Zero(t, p.Kurtosis)
	assert.Zero(t, p.Outliers)
}

func TestAnalyzeSymmetricDataLooksNormal(t *testing.T) {
	data := []float64{1, 2, 2, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 6, 6, 7}
	p := Analyze(data)
	assert.InDelta(t, 0, p.Skewness, 0.01)
	assert.True(t, p.IsNormal)
}
