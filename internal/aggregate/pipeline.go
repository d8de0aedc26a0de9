// Package aggregate holds the group-and-reduce pipeline behind every dashboard chart.
//
// A pass runs group → reduce → finalize → sort → limit over a record slice. Groups are
// created in first-encountered order and sorting is stable, so ties keep that order.
package aggregate

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Pipeline describes one aggregation pass over records of type T, grouped by K,
// accumulated in A and emitted as R.
type Pipeline[T any, K comparable, A any, R any] struct {
	// Key extracts the grouping key of a record.
	Key func(T) K
	// Seed returns a fresh accumulator for a new group.
	Seed func() A
	// Combine folds one record into the accumulator of its group.
	Combine func(A, T) A
	// Finalize turns a finished accumulator into an output row.
	Finalize func(K, A) R
	// Compare orders output rows. Nil keeps first-encountered order.
	Compare func(a, b R) int
	// Preseed lists keys reported even when no record maps to them.
	// They come first, in this order, ahead of any other observed key.
	Preseed []K
	// Limit caps the number of rows returned. Zero means no cap.
	Limit int
}

// Run executes the pass. The input slice is not modified.
func (p Pipeline[T, K, A, R]) Run(records []T) []R {
	order := make([]K, 0, len(p.Preseed))
	groups := make(map[K]A, len(p.Preseed))
	for _, k := range p.Preseed {
		if _, ok := groups[k]; ok {
			continue
		}
		groups[k] = p.Seed()
		order = append(order, k)
	}

	for _, r := range records {
		k := p.Key(r)
		acc, ok := groups[k]
		if !ok {
			acc = p.Seed()
			order = append(order, k)
		}
		groups[k] = p.Combine(acc, r)
	}

	out := make([]R, 0, len(order))
	for _, k := range order {
		out = append(out, p.Finalize(k, groups[k]))
	}
	if p.Compare != nil {
		slices.SortStableFunc(out, p.Compare)
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// GroupReduce is the unsorted form of a pass: one row per distinct key in first-encountered order.
func GroupReduce[T any, K comparable, A any, R any](
	records []T,
	key func(T) K,
	seed func() A,
	combine func(A, T) A,
	finalize func(K, A) R,
) []R {
	return Pipeline[T, K, A, R]{Key: key, Seed: seed, Combine: combine, Finalize: finalize}.Run(records)
}

// mean collects the values of a group. The average is only taken at the end.
type mean struct {
	values []float64
}

func (m mean) Add(v float64) mean {
	return mean{values: append(m.values, v)}
}

// Value is the average of the collected values, or 0 for an empty accumulator.
func (m mean) Value() float64 {
	return orderedMean(m.values)
}

// orderedMean sums a sorted copy of values so the result does not depend on input order.
func orderedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return floats.Sum(sorted) / float64(len(sorted))
}

func newMean() mean { return mean{} }

// desc orders by a float measure, largest first.
func desc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
