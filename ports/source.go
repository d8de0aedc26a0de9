package ports

import (
	"context"
)

// Row is one decoded, header-driven record of a raw table.
// Values may be strings or numbers depending on the decoder; coercion is the normalizer's job.
type Row map[string]any

// RowSource supplies the decoded rows of one raw table.
// Failing to reach or decode the table is a load failure and is returned as an error.
type RowSource interface {
	ReadRows(ctx context.Context) ([]Row, error)
	// Name identifies the source in logs and errors.
	Name() string
}

// StaticSource serves rows that are already in memory.
type StaticSource struct {
	Label string
	Rows  []Row
}

// ReadRows returns the rows unchanged.
func (s StaticSource) ReadRows(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Rows, nil
}

// Name returns the label of the source.
func (s StaticSource) Name() string { return s.Label }
