package engagement

import (
	"encoding/json"
	"slices"

	"socialpulse/domain/core"
)

// DashboardDimensions are the dimensions the dashboard can constrain.
var DashboardDimensions = []Dimension{DimRegion, DimPlatform, DimContentType, DimHashtag}

// RecommenderDimensions are the dimensions the recommender can constrain.
// Platform is the output of the recommender, never an input.
var RecommenderDimensions = []Dimension{DimRegion, DimContentType, DimHashtag}

// FilterSet maps each permitted dimension to an optional selected value.
// It is a value type: every mutator returns a new FilterSet and leaves the receiver untouched.
type FilterSet struct {
	allowed  []Dimension
	selected map[Dimension]string
}

// NewFilterSet creates an unconstrained filter set over the given dimensions.
func NewFilterSet(dims ...Dimension) FilterSet {
	return FilterSet{
		allowed:  slices.Clone(dims),
		selected: make(map[Dimension]string, len(dims)),
	}
}

// NewDashboardFilters creates the filter set used by the dashboard.
func NewDashboardFilters() FilterSet { return NewFilterSet(DashboardDimensions...) }

// NewRecommenderFilters creates the filter set used by the recommender.
func NewRecommenderFilters() FilterSet { return NewFilterSet(RecommenderDimensions...) }

// Dimensions returns the permitted dimensions in declaration order.
func (f FilterSet) Dimensions() []Dimension { return slices.Clone(f.allowed) }

// Allows reports whether d may be constrained by this filter set.
func (f FilterSet) Allows(d Dimension) bool { return slices.Contains(f.allowed, d) }

// Value returns the selected value for d, if any.
func (f FilterSet) Value(d Dimension) (string, bool) {
	v, ok := f.selected[d]
	return v, ok
}

// Set constrains d to value. An empty value clears the constraint.
func (f FilterSet) Set(d Dimension, value string) (FilterSet, error) {
	if err := f.check(d); err != nil {
		return f, err
	}
	next := f.clone()
	if value == "" {
		delete(next.selected, d)
	} else {
		next.selected[d] = value
	}
	return next, nil
}

// Toggle selects value for d, or clears d when value is already the active selection.
func (f FilterSet) Toggle(d Dimension, value string) (FilterSet, error) {
	if err := f.check(d); err != nil {
		return f, err
	}
	if current, ok := f.selected[d]; ok && current == value {
		return f.Clear(d), nil
	}
	return f.Set(d, value)
}

// Clear removes the constraint on d.
func (f FilterSet) Clear(d Dimension) FilterSet {
	next := f.clone()
	delete(next.selected, d)
	return next
}

// ClearAll removes every constraint.
func (f FilterSet) ClearAll() FilterSet {
	return NewFilterSet(f.allowed...)
}

// ActiveCount is the number of constrained dimensions.
func (f FilterSet) ActiveCount() int { return len(f.selected) }

// Restrict keeps only the constraints on dims and narrows the permitted dimensions to them.
func (f FilterSet) Restrict(dims ...Dimension) FilterSet {
	next := NewFilterSet(dims...)
	for _, d := range dims {
		if v, ok := f.selected[d]; ok {
			next.selected[d] = v
		}
	}
	return next
}

// Matches reports whether r satisfies every active constraint.
func (f FilterSet) Matches(r Dimensioned) bool {
	for d, v := range f.selected {
		if r.Dimension(d) != v {
			return false
		}
	}
	return true
}

// Map returns the filter state keyed by dimension name, nil meaning unconstrained.
func (f FilterSet) Map() map[string]*string {
	out := make(map[string]*string, len(f.allowed))
	for _, d := range f.allowed {
		if v, ok := f.selected[d]; ok {
			out[string(d)] = &v
		} else {
			out[string(d)] = nil
		}
	}
	return out
}

// MarshalJSON renders the filter set as {"region": "US", "platform": null, ...}.
func (f FilterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Map())
}

func (f FilterSet) check(d Dimension) error {
	if f.Allows(d) {
		return nil
	}
	if slices.Contains(AllDimensions, d) {
		return core.NewDimensionError(string(d), false)
	}
	return core.NewDimensionError(string(d), true)
}

func (f FilterSet) clone() FilterSet {
	next := FilterSet{
		allowed:  slices.Clone(f.allowed),
		selected: make(map[Dimension]string, len(f.selected)+1),
	}
	for d, v := range f.selected {
		next.selected[d] = v
	}
	return next
}

// Apply returns the records matching every active constraint of f, in input order.
// The input slice is never modified and never aliased by the result.
func Apply[T Dimensioned](records []T, f FilterSet) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
