package ui

import (
	"fmt"
	"net/url"
	"strings"

	"socialpulse/domain/engagement"

	"github.com/gin-gonic/gin"
)

// filterValues picks the filter dimensions out of a query string.
// Both the camelCase and the snake_case spelling of a dimension are accepted.
func filterValues(q url.Values, dims []engagement.Dimension) map[string]string {
	out := make(map[string]string, len(dims))
	for _, d := range dims {
		for _, key := range queryKeys(d) {
			if v := strings.TrimSpace(q.Get(key)); v != "" {
				out[string(d)] = v
				break
			}
		}
	}
	return out
}

func queryKeys(d engagement.Dimension) []string {
	if d == engagement.DimContentType {
		return []string{"contentType", "content_type"}
	}
	return []string{string(d)}
}

func queryFilters(c *gin.Context, dims []engagement.Dimension) map[string]string {
	return filterValues(c.Request.URL.Query(), dims)
}

// filterQuery encodes a filter set back into a query string, skipping unconstrained dimensions
func filterQuery(f engagement.FilterSet) string {
	q := url.Values{}
	for _, d := range f.Dimensions() {
		if v, ok := f.Value(d); ok {
			q.Set(string(d), v)
		}
	}
	return q.Encode()
}

// toggleQuery is the query string after toggling value on d
func toggleQuery(f engagement.FilterSet, d engagement.Dimension, value string) string {
	next, err := f.Toggle(d, value)
	if err != nil {
		return filterQuery(f)
	}
	return filterQuery(next)
}

// formatCount abbreviates large counts: 950, 12.3K, 4.5M, 1.2B
func formatCount(n int64) string {
	v := float64(n)
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1e6)
	case n >= 10_000:
		return fmt.Sprintf("%.1fK", v/1e3)
	}
	return fmt.Sprintf("%d", n)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
