package testkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"socialpulse/adapters/excel"
	"socialpulse/domain/engagement"
	"socialpulse/internal/dataset"
	"socialpulse/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	config SocialGeneratorConfig
}

// NewTestKit creates a new test kit over a small synthetic dataset
func NewTestKit() *TestKit {
	config := DefaultSocialConfig()
	config.PostCount = 500
	return &TestKit{config: config}
}

// NewTestKitWithConfig creates a test kit with a custom generator configuration
func NewTestKitWithConfig(config SocialGeneratorConfig) *TestKit {
	return &TestKit{config: config}
}

// Sources returns fresh post and signal sources. Same config, same rows.
func (t *TestKit) Sources() (posts, signals ports.StaticSource) {
	return NewSocialDataGenerator(t.config).Sources()
}

// LoadedStore returns a ready store over the synthetic dataset
func (t *TestKit) LoadedStore(ctx context.Context, opts ...dataset.StoreOption) (*dataset.Store, error) {
	posts, signals := t.Sources()
	store := dataset.NewStore(opts...)
	if _, err := store.Load(ctx, posts, signals); err != nil {
		return nil, err
	}
	return store, nil
}

// WriteFixtures writes the synthetic tables as CSV files into dir
func (t *TestKit) WriteFixtures(dir string) (postsPath, signalsPath string, err error) {
	posts, signals := t.Sources()
	postsPath = filepath.Join(dir, "posts.csv")
	signalsPath = filepath.Join(dir, "signals.csv")
	if err := writeCSVFile(postsPath, PostHeaders, posts.Rows); err != nil {
		return "", "", err
	}
	if err := writeCSVFile(signalsPath, SignalHeaders, signals.Rows); err != nil {
		return "", "", err
	}
	return postsPath, signalsPath, nil
}

func writeCSVFile(path string, headers []string, rows []ports.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create fixture %s: %w", path, err)
	}
	defer f.Close()
	return excel.WriteCSV(f, headers, rows)
}

// Posts builds a record slice directly, bypassing normalization
func Posts(records ...engagement.PostRecord) []engagement.PostRecord {
	for i := range records {
		records[i].ID = i
		if records[i].ERRLevel == "" {
			records[i].ERRLevel = engagement.Classify(records[i].ERR)
		}
	}
	return records
}
