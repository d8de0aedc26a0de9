package app

import (
	"socialpulse/adapters/excel"
	"socialpulse/internal"
	"socialpulse/internal/config"
	"socialpulse/internal/dataset"
	"socialpulse/internal/normalize"
	"socialpulse/internal/testkit"
	"socialpulse/ports"
)

// DataSources resolves the configured post and signal tables.
// Without a post file a seeded synthetic dataset is used. Without a signal file
// signals is nil and the store derives them from the posts.
func DataSources(cfg *config.Config, logger *internal.Logger) (posts, signals ports.RowSource) {
	if !cfg.Data.Posts.Enabled() {
		gen := testkit.DefaultSocialConfig()
		gen.PostCount = cfg.Synthetic.Posts
		gen.Seed = cfg.Synthetic.Seed
		gen.DecayRate = cfg.Decay.Rate
		logger.Warn("POSTS_FILE not set; using %d synthetic posts (seed %d)", gen.PostCount, gen.Seed)
		p, s := testkit.NewSocialDataGenerator(gen).Sources()
		return p, s
	}

	posts = cfg.Data.Posts.NewReader(excel.WithLogger(logger))
	if cfg.Data.Signals.Enabled() {
		signals = cfg.Data.Signals.NewReader(excel.WithLogger(logger))
	} else {
		logger.Info("SIGNALS_FILE not set; signals will be derived from posts at rate %.4f", cfg.Decay.Rate)
	}
	return posts, signals
}

// NewStore builds a pending store with the configured normalization and decay settings.
func NewStore(cfg *config.Config, logger *internal.Logger) *dataset.Store {
	var opts []normalize.Option
	if cfg.Data.DeriveMetrics {
		opts = append(opts, normalize.WithDerivedMetrics())
	}
	return dataset.NewStore(
		dataset.WithNormalizer(normalize.New(opts...)),
		dataset.WithDecay(cfg.Decay.Rate, cfg.Decay.AsOf),
		dataset.WithLogger(logger),
	)
}
