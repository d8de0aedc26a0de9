// Package normalize turns decoded raw rows into the typed record sets the engines work on.
// Normalization never fails: malformed values are coerced or defaulted and rows missing a
// required field are dropped.
package normalize

import (
	"strings"

	"socialpulse/adapters/coercer"
	"socialpulse/domain/engagement"
	"socialpulse/ports"
)

// Post table columns.
const (
	ColDate        = "Post_Date"
	ColPlatform    = "Platform"
	ColRegion      = "Region"
	ColContentType = "Content_Type"
	ColHashtag     = "Hashtag"
	ColViews       = "Views"
	ColLikes       = "Likes"
	ColComments    = "Comments"
	ColShares      = "Shares"
	ColERR         = "ERR%"
	ColERRLevel    = "ERR_Level"
)

// ColDecayedERR is the score column of the signal table.
const ColDecayedERR = "Decayed_ERR"

// PostRequiredFields must be present for a post row to be kept.
var PostRequiredFields = []string{ColDate, ColViews}

// SignalHeaders is the column order of a written signal table.
var SignalHeaders = []string{ColPlatform, ColHashtag, ColContentType, ColRegion, ColDecayedERR}

// SignalRequiredFields must be present for a signal row to be kept.
var SignalRequiredFields = []string{ColPlatform}

// Normalizer converts raw rows into records.
type Normalizer struct {
	coercer       *coercer.TypeCoercer
	deriveMetrics bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDerivedMetrics fills a missing ERR% from the raw counts and a missing ERR_Level from the ERR value.
func WithDerivedMetrics() Option {
	return func(n *Normalizer) { n.deriveMetrics = true }
}

// WithCoercionConfig replaces the default coercion rules.
func WithCoercionConfig(cfg coercer.CoercionConfig) Option {
	return func(n *Normalizer) { n.coercer = coercer.NewTypeCoercer(cfg) }
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizePosts converts raw post rows using a Normalizer built from opts.
func NormalizePosts(rows []ports.Row, opts ...Option) []engagement.PostRecord {
	return New(opts...).Posts(rows)
}

// NormalizeSignals converts raw signal rows using a Normalizer built from opts.
func NormalizeSignals(rows []ports.Row, opts ...Option) []engagement.PlatformSignal {
	return New(opts...).Signals(rows)
}

// Posts keeps the rows that carry a non-empty date and a views value, in input order.
// IDs are assigned by position among the kept rows.
func (n *Normalizer) Posts(rows []ports.Row) []engagement.PostRecord {
	out := make([]engagement.PostRecord, 0, len(rows))
	for _, row := range rows {
		if !n.hasAll(row, PostRequiredFields) {
			continue
		}
		c := n.coercer
		date := c.Category(field(row, ColDate), "")
		if date == "" {
			continue
		}
		p := engagement.PostRecord{
			ID:          len(out),
			Date:        date,
			Platform:    c.Category(field(row, ColPlatform), engagement.DefaultCategory),
			Region:      c.Category(field(row, ColRegion), engagement.DefaultCategory),
			ContentType: c.Category(field(row, ColContentType), engagement.DefaultCategory),
			Hashtag:     c.Category(field(row, ColHashtag), engagement.DefaultHashtag),
			Views:       c.Int(field(row, ColViews)),
			Likes:       c.Int(field(row, ColLikes)),
			Comments:    c.Int(field(row, ColComments)),
			Shares:      c.Int(field(row, ColShares)),
			ERR:         c.Float(field(row, ColERR)),
			ERRLevel:    engagement.ParseLevel(c.Category(field(row, ColERRLevel), string(engagement.LevelUnknown))),
		}
		if n.deriveMetrics {
			if !c.Present(field(row, ColERR)) {
				p.ERR = engagement.Round2(engagement.ERR(p.Likes, p.Comments, p.Shares, p.Views))
			}
			if !c.Present(field(row, ColERRLevel)) {
				p.ERRLevel = engagement.Classify(p.ERR)
			}
		}
		out = append(out, p)
	}
	return out
}

// Signals keeps the rows that carry a platform, in input order.
func (n *Normalizer) Signals(rows []ports.Row) []engagement.PlatformSignal {
	out := make([]engagement.PlatformSignal, 0, len(rows))
	for _, row := range rows {
		if !n.hasAll(row, SignalRequiredFields) {
			continue
		}
		c := n.coercer
		out = append(out, engagement.PlatformSignal{
			Platform:    c.Category(field(row, ColPlatform), engagement.DefaultCategory),
			Hashtag:     c.Category(field(row, ColHashtag), engagement.DefaultHashtag),
			ContentType: c.Category(field(row, ColContentType), engagement.DefaultCategory),
			Region:      c.Category(field(row, ColRegion), engagement.DefaultCategory),
			DecayedERR:  c.Float(field(row, ColDecayedERR)),
		})
	}
	return out
}

// SignalRows turns signals back into raw rows keyed by SignalHeaders.
func SignalRows(signals []engagement.PlatformSignal) []ports.Row {
	rows := make([]ports.Row, len(signals))
	for i, s := range signals {
		rows[i] = ports.Row{
			ColPlatform:    s.Platform,
			ColHashtag:     s.Hashtag,
			ColContentType: s.ContentType,
			ColRegion:      s.Region,
			ColDecayedERR:  s.DecayedERR,
		}
	}
	return rows
}

func (n *Normalizer) hasAll(row ports.Row, fields []string) bool {
	for _, f := range fields {
		if !n.coercer.Present(field(row, f)) {
			return false
		}
	}
	return true
}

// field looks a column up by exact header first, then case-insensitively.
func field(row ports.Row, name string) any {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v
		}
	}
	return nil
}
