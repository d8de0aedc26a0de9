package app

import (
	"socialpulse/domain/core"
	"socialpulse/domain/engagement"
	"socialpulse/internal/aggregate"
	"socialpulse/internal/dataset"
	"socialpulse/internal/errors"
	"socialpulse/internal/profiling"
	"socialpulse/internal/recommend"
)

// SnapshotProvider supplies the loaded dataset
type SnapshotProvider interface {
	Snapshot() (*dataset.Snapshot, error)
}

// DashboardService composes the engines over the current snapshot.
// Every call recomputes from (snapshot, filters); nothing derived is cached.
type DashboardService struct {
	store      SnapshotProvider
	sampleSize int
}

// DashboardView is everything the dashboard renders for one filter state
type DashboardView struct {
	DatasetID     core.SnapshotID           `json:"datasetId"`
	Filters       engagement.FilterSet      `json:"filters"`
	ActiveFilters int                       `json:"activeFilters"`
	TotalPosts    int                       `json:"totalPosts"`
	FilteredPosts int                       `json:"filteredPosts"`
	Summary       aggregate.Summary         `json:"summary"`
	Regions       []aggregate.RegionStat    `json:"regions"`
	Platforms     []aggregate.PlatformViews `json:"platforms"`
	ContentTypes  []aggregate.CategoryERR   `json:"contentTypes"`
	Trend         []aggregate.TrendPoint    `json:"trend"`
	Hashtags      []aggregate.CategoryERR   `json:"hashtags"`
	Levels        []aggregate.LevelCount    `json:"levels"`
	Matrix        aggregate.Matrix          `json:"matrix"`
	Sample        []aggregate.SamplePoint   `json:"sample"`
}

// RankedPlatform is one row of the recommendation list
type RankedPlatform struct {
	Rank     int     `json:"rank"`
	Label    string  `json:"label"`
	Platform string  `json:"platform"`
	Score    float64 `json:"score"`
}

// RecommendationView is the recommender output for one filter state
type RecommendationView struct {
	DatasetID     core.SnapshotID      `json:"datasetId"`
	Filters       engagement.FilterSet `json:"filters"`
	ActiveFilters int                  `json:"activeFilters"`
	Available     bool                 `json:"available"`
	Message       string               `json:"message,omitempty"`
	Platforms     []RankedPlatform     `json:"platforms"`
}

// CalculationView is the calculator result with its display strings
type CalculationView struct {
	engagement.Calculation
	Tier  string `json:"tier"`
	Label string `json:"label"`
}

// NewDashboardService creates a dashboard service. A non-positive sample size selects the default.
func NewDashboardService(store SnapshotProvider, sampleSize int) *DashboardService {
	if sampleSize <= 0 {
		sampleSize = aggregate.DefaultSampleSize
	}
	return &DashboardService{store: store, sampleSize: sampleSize}
}

func (s *DashboardService) snapshot() (*dataset.Snapshot, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		if core.IsLoadError(err) {
			return nil, errors.NotReady(err)
		}
		return nil, errors.Wrap(err, "reading dataset snapshot")
	}
	return snap, nil
}

// Dashboard filters the posts and computes every chart
func (s *DashboardService) Dashboard(filters engagement.FilterSet) (*DashboardView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	filters = filters.Restrict(engagement.DashboardDimensions...)
	posts := engagement.Apply(snap.Posts, filters)

	return &DashboardView{
		DatasetID:     snap.ID,
		Filters:       filters,
		ActiveFilters: filters.ActiveCount(),
		TotalPosts:    len(snap.Posts),
		FilteredPosts: len(posts),
		Summary:       aggregate.Summarize(posts),
		Regions:       aggregate.ByRegion(posts),
		Platforms:     aggregate.ByPlatform(posts),
		ContentTypes:  aggregate.ByContentType(posts),
		Trend:         aggregate.Trend(posts),
		Hashtags:      aggregate.ByHashtag(posts),
		Levels:        aggregate.LevelDistribution(posts),
		Matrix:        aggregate.PlatformContentMatrix(posts),
		Sample:        aggregate.TopByViews(posts, s.sampleSize),
	}, nil
}

// DistributionView is the optional ERR distribution profile of the filtered posts
type DistributionView struct {
	DatasetID core.SnapshotID      `json:"datasetId"`
	Filters   engagement.FilterSet `json:"filters"`
	Profile   profiling.Profile    `json:"profile"`
}

// Distribution profiles ERR over the posts matching filters. It is requested
// separately and never part of the dashboard view.
func (s *DashboardService) Distribution(filters engagement.FilterSet) (*DistributionView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	filters = filters.Restrict(engagement.DashboardDimensions...)
	posts := engagement.Apply(snap.Posts, filters)
	return &DistributionView{
		DatasetID: snap.ID,
		Filters:   filters,
		Profile:   profiling.Analyze(aggregate.ERRValues(posts)),
	}, nil
}

// Recommend ranks platforms under the recommender filters
func (s *DashboardService) Recommend(filters engagement.FilterSet) (*RecommendationView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	ranking := recommend.RankPlatforms(snap.Signals, filters)

	view := &RecommendationView{
		DatasetID:     snap.ID,
		Filters:       ranking.Filters,
		ActiveFilters: ranking.Filters.ActiveCount(),
		Available:     ranking.Available(),
		Platforms:     make([]RankedPlatform, len(ranking.Platforms)),
	}
	for i, p := range ranking.Platforms {
		view.Platforms[i] = RankedPlatform{
			Rank:     i + 1,
			Label:    recommend.RankLabel(i),
			Platform: p.Platform,
			Score:    engagement.Round2(p.Score),
		}
	}
	if !view.Available {
		view.Message = recommend.NoDataMessage
	}
	return view, nil
}

// Options lists the values the filter widgets offer
func (s *DashboardService) Options() (*aggregate.Options, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	opts := aggregate.FilterOptions(snap.Posts, snap.Signals)
	return &opts, nil
}

// Calculate runs the ERR calculator. It works without a loaded dataset.
func (s *DashboardService) Calculate(input map[string]string) CalculationView {
	return NewCalculationView(engagement.CalculateFromInput(input))
}

// NewCalculationView attaches the display strings to a calculation
func NewCalculationView(c engagement.Calculation) CalculationView {
	return CalculationView{Calculation: c, Tier: c.Tier(), Label: c.Label()}
}
