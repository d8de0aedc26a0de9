// Package engagement holds the typed records of the social post dataset and the
// pure rules that operate on them: ERR tiers, the ERR calculator and filter sets.
package engagement

import (
	"fmt"
	"strings"

	"socialpulse/domain/core"
)

// Default values substituted for absent categorical fields.
const (
	DefaultCategory = "Unknown"
	DefaultHashtag  = "#General"
)

// Level is the quality tier of an ERR value.
type Level string

const (
	LevelLow       Level = "Low"
	LevelAverage   Level = "Average"
	LevelHigh      Level = "High"
	LevelExcellent Level = "Excellent"
	LevelUnknown   Level = "Unknown"
)

// DistributionLevels are the buckets always reported by the level distribution, in display order.
var DistributionLevels = []Level{LevelLow, LevelAverage, LevelHigh, LevelExcellent}

// ParseLevel maps a raw tier name onto a Level. Anything unrecognised is LevelUnknown.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow
	case "average":
		return LevelAverage
	case "high":
		return LevelHigh
	case "excellent":
		return LevelExcellent
	default:
		return LevelUnknown
	}
}

// Dimension names a categorical field that can be filtered or grouped on.
type Dimension string

const (
	DimRegion      Dimension = "region"
	DimPlatform    Dimension = "platform"
	DimContentType Dimension = "contentType"
	DimHashtag     Dimension = "hashtag"
)

// AllDimensions lists every categorical dimension of a post record.
var AllDimensions = []Dimension{DimRegion, DimPlatform, DimContentType, DimHashtag}

// ParseDimension accepts the camelCase name as well as snake_case and the raw column header.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "region":
		return DimRegion, nil
	case "platform":
		return DimPlatform, nil
	case "contenttype", "content_type", "content-type":
		return DimContentType, nil
	case "hashtag":
		return DimHashtag, nil
	}
	return "", core.NewDimensionError(s, true)
}

// Dimensioned is implemented by every record the filter engine can constrain.
type Dimensioned interface {
	Dimension(d Dimension) string
}

// PostRecord is one normalized post. Values are copied, never shared, so a record is immutable once built.
type PostRecord struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Platform    string  `json:"platform"`
	Region      string  `json:"region"`
	ContentType string  `json:"contentType"`
	Hashtag     string  `json:"hashtag"`
	Views       int64   `json:"views"`
	Likes       int64   `json:"likes"`
	Comments    int64   `json:"comments"`
	Shares      int64   `json:"shares"`
	ERR         float64 `json:"err"`
	ERRLevel    Level   `json:"errLevel"`
}

// Dimension returns the categorical value of the record for d.
func (p PostRecord) Dimension(d Dimension) string {
	switch d {
	case DimRegion:
		return p.Region
	case DimPlatform:
		return p.Platform
	case DimContentType:
		return p.ContentType
	case DimHashtag:
		return p.Hashtag
	}
	return ""
}

func (p PostRecord) String() string {
	return fmt.Sprintf("post#%d(%s %s %s views=%d err=%.2f)", p.ID, p.Date, p.Platform, p.Region, p.Views, p.ERR)
}

// PlatformSignal is one row of the platform prediction table used for ranking.
type PlatformSignal struct {
	Platform    string  `json:"platform"`
	Hashtag     string  `json:"hashtag"`
	ContentType string  `json:"contentType"`
	Region      string  `json:"region"`
	DecayedERR  float64 `json:"decayedErr"`
}

// Dimension returns the categorical value of the signal for d.
func (s PlatformSignal) Dimension(d Dimension) string {
	switch d {
	case DimRegion:
		return s.Region
	case DimPlatform:
		return s.Platform
	case DimContentType:
		return s.ContentType
	case DimHashtag:
		return s.Hashtag
	}
	return ""
}
