package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"socialpulse/domain/engagement"
	"socialpulse/internal/normalize"
	"socialpulse/internal/recommend"
	"socialpulse/ports"
)

// SocialGeneratorConfig configures the social post generator
type SocialGeneratorConfig struct {
	PostCount int       `json:"post_count"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	NoiseRate float64   `json:"noise_rate"` // share of rows with missing or garbled fields
	DecayRate float64   `json:"decay_rate"`
	Seed      int64     `json:"seed"`
}

// DefaultSocialConfig returns sensible defaults for post generation
func DefaultSocialConfig() SocialGeneratorConfig {
	return SocialGeneratorConfig{
		PostCount: 5000,
		StartDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		NoiseRate: 0.01,
		DecayRate: recommend.DefaultDecayRate,
		Seed:      42,
	}
}

var (
	platforms    = []string{"TikTok", "Instagram", "YouTube", "Twitter"}
	regions      = []string{"USA", "UK", "India", "Brazil", "Canada", "Australia", "Japan", "Germany"}
	contentTypes = []string{"Video", "Shorts", "Reel", "Post", "Tweet", "Live Stream"}
	hashtags     = []string{"#Challenge", "#Education", "#Dance", "#Comedy", "#Music", "#Gaming", "#Fitness", "#Tech", "#Viral", "#Fashion"}

	// relative engagement lift per platform
	platformLift = map[string]float64{"TikTok": 1.4, "Instagram": 1.1, "YouTube": 0.9, "Twitter": 0.7}
)

// PostHeaders is the column order of generated post tables
var PostHeaders = []string{
	normalize.ColDate, normalize.ColPlatform, normalize.ColHashtag, normalize.ColContentType, normalize.ColRegion,
	normalize.ColViews, normalize.ColLikes, normalize.ColShares, normalize.ColComments, normalize.ColERR, normalize.ColERRLevel,
}

// SignalHeaders is the column order of generated signal tables
var SignalHeaders = normalize.SignalHeaders

// SocialDataGenerator generates realistic post rows the way a CSV export would deliver them
type SocialDataGenerator struct {
	config SocialGeneratorConfig
	rng    *rand.Rand
}

// NewSocialDataGenerator creates a new generator
func NewSocialDataGenerator(config SocialGeneratorConfig) *SocialDataGenerator {
	return &SocialDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GeneratePostRows generates PostCount raw post rows. All values are strings.
func (g *SocialDataGenerator) GeneratePostRows() []ports.Row {
	rows := make([]ports.Row, 0, g.config.PostCount)
	for i := 0; i < g.config.PostCount; i++ {
		row := g.postRow()
		if g.rng.Float64() < g.config.NoiseRate {
			g.garble(row)
		}
		rows = append(rows, row)
	}
	return rows
}

func (g *SocialDataGenerator) postRow() ports.Row {
	platform := pick(g.rng, platforms)
	views := int64(math.Exp(g.rng.Float64()*8+7)) // roughly 1k to 3M
	share := math.Max(0, (g.rng.NormFloat64()*0.015+0.03)*platformLift[platform])
	engaged := int64(float64(views) * share)
	likes := engaged * int64(60+g.rng.Intn(25)) / 100
	comments := engaged * int64(5+g.rng.Intn(10)) / 100
	shares := max(engaged-likes-comments, 0)
	err := engagement.Round2(engagement.ERR(likes, comments, shares, views))

	return ports.Row{
		normalize.ColDate:        g.randomDate().Format("2006-01-02"),
		normalize.ColPlatform:    platform,
		normalize.ColHashtag:     pick(g.rng, hashtags),
		normalize.ColContentType: pick(g.rng, contentTypes),
		normalize.ColRegion:      pick(g.rng, regions),
		normalize.ColViews:       strconv.FormatInt(views, 10),
		normalize.ColLikes:       strconv.FormatInt(likes, 10),
		normalize.ColShares:      strconv.FormatInt(shares, 10),
		normalize.ColComments:    strconv.FormatInt(comments, 10),
		normalize.ColERR:         strconv.FormatFloat(err, 'f', 2, 64),
		normalize.ColERRLevel:    string(engagement.Classify(err)),
	}
}

// garble damages a row the way real exports do
func (g *SocialDataGenerator) garble(row ports.Row) {
	switch g.rng.Intn(5) {
	case 0:
		delete(row, normalize.ColDate)
	case 1:
		row[normalize.ColViews] = ""
	case 2:
		row[normalize.ColLikes] = "n/a"
	case 3:
		row[normalize.ColRegion] = ""
		row[normalize.ColHashtag] = ""
	default:
		row[normalize.ColERRLevel] = "???"
	}
}

// GenerateSignalRows derives one signal row per valid post row, decayed against EndDate
func (g *SocialDataGenerator) GenerateSignalRows(postRows []ports.Row) []ports.Row {
	posts := normalize.NormalizePosts(postRows)
	signals := recommend.DeriveSignals(posts, g.config.EndDate, g.config.DecayRate)
	rows := make([]ports.Row, len(signals))
	for i, s := range signals {
		rows[i] = ports.Row{
			normalize.ColPlatform:    s.Platform,
			normalize.ColHashtag:     s.Hashtag,
			normalize.ColContentType: s.ContentType,
			normalize.ColRegion:      s.Region,
			normalize.ColDecayedERR:  strconv.FormatFloat(s.DecayedERR, 'f', 2, 64),
		}
	}
	return rows
}

// Sources generates a post table and its signal table as in-memory row sources
func (g *SocialDataGenerator) Sources() (posts, signals ports.StaticSource) {
	postRows := g.GeneratePostRows()
	posts = ports.StaticSource{Label: fmt.Sprintf("synthetic posts (seed %d)", g.config.Seed), Rows: postRows}
	signals = ports.StaticSource{Label: fmt.Sprintf("synthetic signals (seed %d)", g.config.Seed), Rows: g.GenerateSignalRows(postRows)}
	return posts, signals
}

func (g *SocialDataGenerator) randomDate() time.Time {
	days := int(g.config.EndDate.Sub(g.config.StartDate).Hours() / 24)
	if days <= 0 {
		return g.config.StartDate
	}
	return g.config.StartDate.AddDate(0, 0, g.rng.Intn(days+1))
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
