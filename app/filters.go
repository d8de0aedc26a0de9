package app

import (
	"fmt"

	"socialpulse/domain/engagement"
	"socialpulse/internal/errors"
)

// Scope selects which filter set a request addresses
type Scope string

const (
	ScopeDashboard   Scope = "dashboard"
	ScopeRecommender Scope = "recommender"
)

// NewFilters returns the empty filter set of a scope
func NewFilters(scope Scope) (engagement.FilterSet, error) {
	switch scope {
	case ScopeDashboard, "":
		return engagement.NewDashboardFilters(), nil
	case ScopeRecommender:
		return engagement.NewRecommenderFilters(), nil
	}
	return engagement.FilterSet{}, errors.InvalidInput(fmt.Sprintf("unknown filter scope %q", scope))
}

// FiltersFromMap builds a filter set from dimension → value pairs. Empty values are unconstrained.
func FiltersFromMap(scope Scope, values map[string]string) (engagement.FilterSet, error) {
	f, err := NewFilters(scope)
	if err != nil {
		return f, err
	}
	for name, value := range values {
		d, err := engagement.ParseDimension(name)
		if err != nil {
			return f, errors.WithCode(errors.CodeInvalidInput, err)
		}
		if f, err = f.Set(d, value); err != nil {
			return f, errors.WithCode(errors.CodeInvalidInput, err)
		}
	}
	return f, nil
}

// ToggleFilter applies the toggle rule to one dimension of an existing filter state
func ToggleFilter(scope Scope, current map[string]string, dimension, value string) (engagement.FilterSet, error) {
	f, err := FiltersFromMap(scope, current)
	if err != nil {
		return f, err
	}
	d, err := engagement.ParseDimension(dimension)
	if err != nil {
		return f, errors.WithCode(errors.CodeInvalidInput, err)
	}
	next, err := f.Toggle(d, value)
	if err != nil {
		return f, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return next, nil
}
