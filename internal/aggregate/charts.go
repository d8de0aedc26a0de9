package aggregate

import (
	"slices"

	"socialpulse/domain/core"
	"socialpulse/domain/engagement"
)

// DefaultSampleSize is how many posts the top-by-views sample keeps.
const DefaultSampleSize = 100

// RegionStat is one bar of the by-region chart.
type RegionStat struct {
	Region string  `json:"region"`
	Views  int64   `json:"views"`
	AvgERR float64 `json:"avgErr"`
}

// PlatformViews is one slice of the by-platform chart.
type PlatformViews struct {
	Platform string `json:"platform"`
	Views    int64  `json:"views"`
}

// CategoryERR is the average ERR of one content type or hashtag.
type CategoryERR struct {
	Name   string  `json:"name"`
	AvgERR float64 `json:"avgErr"`
}

// TrendPoint is the average ERR of one calendar date.
type TrendPoint struct {
	Date   string  `json:"date"`
	AvgERR float64 `json:"avgErr"`
}

// LevelCount is one bucket of the ERR level distribution.
type LevelCount struct {
	Level engagement.Level `json:"level"`
	Count int              `json:"count"`
}

// MatrixRow holds one platform's average ERR per content type.
type MatrixRow struct {
	Platform string             `json:"platform"`
	Cells    map[string]float64 `json:"cells"`
}

// Matrix is the platform × content type cross-tab.
type Matrix struct {
	ContentTypes []string    `json:"contentTypes"`
	Rows         []MatrixRow `json:"rows"`
}

// SamplePoint is the projection of a post used by the scatter view.
type SamplePoint struct {
	Likes       int64            `json:"likes"`
	Comments    int64            `json:"comments"`
	Shares      int64            `json:"shares"`
	ContentType string           `json:"contentType"`
	ERRLevel    engagement.Level `json:"errLevel"`
}

type viewsERR struct {
	Views int64
	ERR   mean
}

// ByRegion sums views and averages ERR per region, most viewed first.
func ByRegion(posts []engagement.PostRecord) []RegionStat {
	return Pipeline[engagement.PostRecord, string, viewsERR, RegionStat]{
		Key:  func(p engagement.PostRecord) string { return p.Region },
		Seed: func() viewsERR { return viewsERR{} },
		Combine: func(a viewsERR, p engagement.PostRecord) viewsERR {
			return viewsERR{Views: a.Views + p.Views, ERR: a.ERR.Add(p.ERR)}
		},
		Finalize: func(k string, a viewsERR) RegionStat {
			return RegionStat{Region: k, Views: a.Views, AvgERR: engagement.Round2(a.ERR.Value())}
		},
		Compare: func(a, b RegionStat) int { return desc(float64(a.Views), float64(b.Views)) },
	}.Run(posts)
}

// ByPlatform sums views per platform in first-encountered order.
func ByPlatform(posts []engagement.PostRecord) []PlatformViews {
	return GroupReduce(posts,
		func(p engagement.PostRecord) string { return p.Platform },
		func() int64 { return 0 },
		func(sum int64, p engagement.PostRecord) int64 { return sum + p.Views },
		func(k string, sum int64) PlatformViews { return PlatformViews{Platform: k, Views: sum} },
	)
}

// ByContentType averages ERR per content type, highest first.
func ByContentType(posts []engagement.PostRecord) []CategoryERR {
	return averageBy(posts, engagement.DimContentType)
}

// ByHashtag averages ERR per hashtag, highest first.
func ByHashtag(posts []engagement.PostRecord) []CategoryERR {
	return averageBy(posts, engagement.DimHashtag)
}

func averageBy(posts []engagement.PostRecord, d engagement.Dimension) []CategoryERR {
	return Pipeline[engagement.PostRecord, string, mean, CategoryERR]{
		Key:     func(p engagement.PostRecord) string { return p.Dimension(d) },
		Seed:    newMean,
		Combine: func(m mean, p engagement.PostRecord) mean { return m.Add(p.ERR) },
		Finalize: func(k string, m mean) CategoryERR {
			return CategoryERR{Name: k, AvgERR: engagement.Round2(m.Value())}
		},
		Compare: func(a, b CategoryERR) int { return desc(a.AvgERR, b.AvgERR) },
	}.Run(posts)
}

// Trend averages ERR per date, oldest first.
// Dates that cannot be parsed sort after every parseable date.
func Trend(posts []engagement.PostRecord) []TrendPoint {
	return Pipeline[engagement.PostRecord, string, mean, TrendPoint]{
		Key:     func(p engagement.PostRecord) string { return p.Date },
		Seed:    newMean,
		Combine: func(m mean, p engagement.PostRecord) mean { return m.Add(p.ERR) },
		Finalize: func(k string, m mean) TrendPoint {
			return TrendPoint{Date: k, AvgERR: engagement.Round2(m.Value())}
		},
		Compare: func(a, b TrendPoint) int { return core.CompareCalendarDates(a.Date, b.Date) },
	}.Run(posts)
}

// LevelDistribution counts posts per ERR level. The four tiers are always reported,
// in tier order; any other level seen in the data follows them.
func LevelDistribution(posts []engagement.PostRecord) []LevelCount {
	return Pipeline[engagement.PostRecord, engagement.Level, int, LevelCount]{
		Key:      func(p engagement.PostRecord) engagement.Level { return p.ERRLevel },
		Seed:     func() int { return 0 },
		Combine:  func(n int, _ engagement.PostRecord) int { return n + 1 },
		Finalize: func(k engagement.Level, n int) LevelCount { return LevelCount{Level: k, Count: n} },
		Preseed:  engagement.DistributionLevels,
	}.Run(posts)
}

// PlatformContentMatrix averages ERR per platform and content type.
// Every row carries every observed content type; a pair with no posts is 0.
func PlatformContentMatrix(posts []engagement.PostRecord) Matrix {
	columns := UniqueInOrder(posts, engagement.DimContentType)
	rows := GroupReduce(posts,
		func(p engagement.PostRecord) string { return p.Platform },
		func() map[string]mean { return make(map[string]mean) },
		func(cells map[string]mean, p engagement.PostRecord) map[string]mean {
			cells[p.ContentType] = cells[p.ContentType].Add(p.ERR)
			return cells
		},
		func(platform string, cells map[string]mean) MatrixRow {
			row := MatrixRow{Platform: platform, Cells: make(map[string]float64, len(columns))}
			for _, c := range columns {
				row.Cells[c] = engagement.Round2(cells[c].Value())
			}
			return row
		},
	)
	return Matrix{ContentTypes: columns, Rows: rows}
}

// TopByViews projects the n most viewed posts, most viewed first.
// Posts with equal views keep their input order. n <= 0 selects DefaultSampleSize.
func TopByViews(posts []engagement.PostRecord, n int) []SamplePoint {
	if n <= 0 {
		n = DefaultSampleSize
	}
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b engagement.PostRecord) int {
		return desc(float64(a.Views), float64(b.Views))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]SamplePoint, len(sorted))
	for i, p := range sorted {
		out[i] = SamplePoint{
			Likes:       p.Likes,
			Comments:    p.Comments,
			Shares:      p.Shares,
			ContentType: p.ContentType,
			ERRLevel:    p.ERRLevel,
		}
	}
	return out
}

// UniqueInOrder returns the distinct values of d in first-encountered order.
func UniqueInOrder[T engagement.Dimensioned](records []T, d engagement.Dimension) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range records {
		v := r.Dimension(d)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
