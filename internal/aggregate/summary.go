package aggregate

import (
	"slices"
	"sort"

	"socialpulse/domain/engagement"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the headline metrics of a filtered post set.
type Summary struct {
	Posts         int     `json:"posts"`
	TotalViews    int64   `json:"totalViews"`
	TotalLikes    int64   `json:"totalLikes"`
	TotalComments int64   `json:"totalComments"`
	TotalShares   int64   `json:"totalShares"`
	AvgERR        float64 `json:"avgErr"`
	MedianERR     float64 `json:"medianErr"`
	P90ERR        float64 `json:"p90Err"`
}

// Summarize computes the headline metrics. An empty set yields all zeros.
func Summarize(posts []engagement.PostRecord) Summary {
	s := Summary{Posts: len(posts)}
	if len(posts) == 0 {
		return s
	}

	errs := make([]float64, len(posts))
	for i, p := range posts {
		s.TotalViews += p.Views
		s.TotalLikes += p.Likes
		s.TotalComments += p.Comments
		s.TotalShares += p.Shares
		errs[i] = p.ERR
	}

	sort.Float64s(errs)
	s.AvgERR = engagement.Round2(floats.Sum(errs) / float64(len(errs)))
	if median, err := stats.Median(stats.Float64Data(errs)); err == nil {
		s.MedianERR = engagement.Round2(median)
	}
	s.P90ERR = engagement.Round2(stat.Quantile(0.9, stat.Empirical, errs, nil))
	return s
}

// ERRValues projects the ERR of every post, in input order.
func ERRValues(posts []engagement.PostRecord) []float64 {
	out := make([]float64, len(posts))
	for i, p := range posts {
		out[i] = p.ERR
	}
	return out
}

// Options lists the values each filter widget can offer.
type Options struct {
	Dashboard   map[engagement.Dimension][]string `json:"dashboard"`
	Recommender map[engagement.Dimension][]string `json:"recommender"`
}

// FilterOptions collects the distinct, sorted, non-empty values of every filterable dimension:
// the dashboard dimensions over the posts and the recommender dimensions over the signals.
func FilterOptions(posts []engagement.PostRecord, signals []engagement.PlatformSignal) Options {
	return Options{
		Dashboard:   DistinctValues(posts, engagement.DashboardDimensions),
		Recommender: DistinctValues(signals, engagement.RecommenderDimensions),
	}
}

// DistinctValues returns, for each dimension, its distinct non-empty values in sorted order.
func DistinctValues[T engagement.Dimensioned](records []T, dims []engagement.Dimension) map[engagement.Dimension][]string {
	out := make(map[engagement.Dimension][]string, len(dims))
	for _, d := range dims {
		values := slices.DeleteFunc(UniqueInOrder(records, d), func(v string) bool { return v == "" })
		slices.Sort(values)
		out[d] = values
	}
	return out
}
