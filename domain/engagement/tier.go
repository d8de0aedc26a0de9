package engagement

import (
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// Tier thresholds on an ERR percentage. Lower bounds are inclusive.
const (
	averageFrom   = 1.0
	highFrom      = 3.5
	excellentFrom = 6.0
)

// AnomalyLabel replaces the tier whenever engagement exceeds views.
const AnomalyLabel = "Statistical Anomaly"

// WaitingLabel is shown by the calculator before any reach has been entered.
const WaitingLabel = "Waiting for data..."

// Classify maps an ERR percentage onto its quality tier.
func Classify(v float64) Level {
	switch {
	case math.IsNaN(v):
		return LevelUnknown
	case v < averageFrom:
		return LevelLow
	case v < highFrom:
		return LevelAverage
	case v < excellentFrom:
		return LevelHigh
	default:
		return LevelExcellent
	}
}

// Label is the human-readable performance label of a tier.
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Low Engagement"
	case LevelAverage:
		return "Average Performance"
	case LevelHigh:
		return "High Performance"
	case LevelExcellent:
		return "Viral Status"
	}
	return "Unknown"
}

// Round2 rounds half away from zero to two decimal places. NaN becomes 0.
func Round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return 0
	}
	return r
}

// ERR is (likes + comments + shares) / views × 100, or 0 when views is not positive.
func ERR(likes, comments, shares, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(views) * 100
}

// Calculation is the result of the ERR calculator.
type Calculation struct {
	Likes     int64   `json:"likes"`
	Comments  int64   `json:"comments"`
	Shares    int64   `json:"shares"`
	Views     int64   `json:"views"`
	Value     float64 `json:"value"`
	Anomalous bool    `json:"anomalous"`
}

// ComputeERR runs the calculator. Negative inputs count as 0.
// Engagement above reach is flagged as anomalous but still computed.
func ComputeERR(likes, comments, shares, views int64) Calculation {
	c := Calculation{
		Likes:    max(likes, 0),
		Comments: max(comments, 0),
		Shares:   max(shares, 0),
		Views:    max(views, 0),
	}
	if c.Views == 0 {
		return c
	}
	total := c.Likes + c.Comments + c.Shares
	c.Value = Round2(ERR(c.Likes, c.Comments, c.Shares, c.Views))
	c.Anomalous = total > c.Views
	return c
}

// Tier is the tier name shown for the calculation.
func (c Calculation) Tier() string {
	if c.Anomalous {
		return AnomalyLabel
	}
	return string(Classify(c.Value))
}

// Label is the display label of the calculation.
func (c Calculation) Label() string {
	if c.Anomalous {
		return AnomalyLabel
	}
	if c.Value == 0 {
		return WaitingLabel
	}
	return Classify(c.Value).Label()
}

// Calculator input field names.
const (
	InputLikes    = "likes"
	InputComments = "comments"
	InputShares   = "shares"
	InputViews    = "views"
)

// CalculateFromInput runs the calculator over free-text form fields.
// A field that is missing or not a plain non-negative integer counts as 0.
func CalculateFromInput(input map[string]string) Calculation {
	return ComputeERR(
		parseCount(input[InputLikes]),
		parseCount(input[InputComments]),
		parseCount(input[InputShares]),
		parseCount(input[InputViews]),
	)
}

func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
