// Package profiling describes the shape of a metric's distribution: spread, quartiles,
// skew, tail weight and IQR outliers.
package profiling

import (
	"math"
	"sort"

	"socialpulse/domain/engagement"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Profile summarises one distribution. Every field is finite; values that cannot be
// computed for a small sample are 0.
type Profile struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stdDev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis
	Outliers int     `json:"outliers"`
	IsNormal bool    `json:"isNormal"`
	NormalP  float64 `json:"normalP"`
}

// Analyze profiles data without modifying it. An empty input yields the zero Profile.
func Analyze(data []float64) Profile {
	p := Profile{Count: len(data)}
	if len(data) == 0 {
		return p
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mean, stdDev := stat.MeanStdDev(sorted, nil)
	p.Mean = mean
	p.Min = sorted[0]
	p.Max = sorted[len(sorted)-1]
	p.Median, _ = stats.Median(sorted)
	p.Q25 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	p.Q75 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	p.Outliers = detectOutliers(sorted, p.Q25, p.Q75)

	if len(sorted) >= 2 {
		p.StdDev = stdDev
	}
	if len(sorted) >= 3 && stdDev > 0 {
		p.Skewness = stat.Skew(sorted, nil)
	}
	if len(sorted) >= 4 && stdDev > 0 {
		p.Kurtosis = stat.ExKurtosis(sorted, nil)
	}
	p.IsNormal, p.NormalP = testNormality(len(sorted), p.Skewness, p.Kurtosis)

	return p.rounded()
}

// testNormality approximates a Jarque-Bera test: JB = n/6 (S² + K²/4) against χ²(2)
func testNormality(n int, skewness, excessKurtosis float64) (bool, float64) {
	if n < 3 {
		return false, 1
	}
	jb := float64(n) / 6 * (skewness*skewness + excessKurtosis*excessKurtosis/4)
	chi := distuv.ChiSquared{K: 2}
	pValue := 1 - chi.CDF(jb)
	return pValue > 0.05, pValue
}

// detectOutliers counts the values outside the 1.5×IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

func (p Profile) rounded() Profile {
	for _, v := range []*float64{&p.Mean, &p.StdDev, &p.Min, &p.Max, &p.Q25, &p.Median, &p.Q75, &p.Skewness, &p.Kurtosis} {
		*v = finite(engagement.Round2(*v))
	}
	p.NormalP = finite(math.Round(p.NormalP*1e4) / 1e4)
	return p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
