package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"socialpulse/adapters/excel"
	"socialpulse/app"
	"socialpulse/domain/core"
	"socialpulse/domain/engagement"
	"socialpulse/internal"
	"socialpulse/internal/dataset"
	"socialpulse/internal/normalize"
	"socialpulse/internal/recommend"
	"socialpulse/internal/testkit"
	"socialpulse/ports"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFlags selects the tables a command reads
type sourceFlags struct {
	posts          string
	signals        string
	sheet          string
	deriveMetrics  bool
	syntheticPosts int
	seed           int64
	logLevel       string
}

type filterFlags struct {
	region      string
	platform    string
	contentType string
	hashtag     string
}

func (f filterFlags) values() map[string]string {
	return map[string]string{
		string(engagement.DimRegion):      f.region,
		string(engagement.DimPlatform):    f.platform,
		string(engagement.DimContentType): f.contentType,
		string(engagement.DimHashtag):     f.hashtag,
	}
}

func newRootCmd() *cobra.Command {
	src := &sourceFlags{}
	rootCmd := &cobra.Command{
		Use:           "socialpulse-cli",
		Short:         "SocialPulse CLI for engagement summaries, platform rankings and signal derivation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&src.logLevel, "log-level", "WARN", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	rootCmd.AddCommand(
		newSummaryCmd(src),
		newRankCmd(src),
		newCalcCmd(),
		newDeriveSignalsCmd(src),
	)
	return rootCmd
}

func addSourceFlags(cmd *cobra.Command, src *sourceFlags) {
	cmd.Flags().StringVar(&src.posts, "posts", "", "Post table (.csv, .xlsx or .json); synthetic data when empty")
	cmd.Flags().StringVar(&src.sheet, "sheet", "", "Sheet name for .xlsx files (default: first sheet)")
	cmd.Flags().BoolVar(&src.deriveMetrics, "derive-metrics", false, "Compute missing ERR% and ERR_Level from the raw counts")
	cmd.Flags().IntVar(&src.syntheticPosts, "synthetic-posts", 5000, "Number of synthetic posts when no post table is given")
	cmd.Flags().Int64Var(&src.seed, "seed", 42, "Random seed for synthetic data")
}

func (s *sourceFlags) logger() *internal.Logger {
	return internal.NewLogger(internal.ParseLogLevel(s.logLevel))
}

func (s *sourceFlags) normalizer() *normalize.Normalizer {
	if s.deriveMetrics {
		return normalize.New(normalize.WithDerivedMetrics())
	}
	return normalize.New()
}

// sources resolves the post and signal tables. signals is nil when only a post file is given.
func (s *sourceFlags) sources(logger *internal.Logger) (posts, signals ports.RowSource) {
	if s.posts == "" && s.signals == "" {
		cfg := testkit.DefaultSocialConfig()
		cfg.PostCount = s.syntheticPosts
		cfg.Seed = s.seed
		p, sig := testkit.NewSocialDataGenerator(cfg).Sources()
		return p, sig
	}
	opts := []excel.ReaderOption{excel.WithLogger(logger)}
	if s.sheet != "" {
		opts = append(opts, excel.WithSheet(s.sheet))
	}
	if s.posts != "" {
		posts = excel.NewDataReader(s.posts, opts...)
	}
	if s.signals != "" {
		signals = excel.NewDataReader(s.signals, opts...)
	}
	return posts, signals
}

func (s *sourceFlags) loadStore(ctx context.Context) (*dataset.Store, error) {
	logger := s.logger()
	posts, signals := s.sources(logger)
	if posts == nil {
		return nil, fmt.Errorf("--posts is required when --signals is given")
	}
	store := dataset.NewStore(dataset.WithNormalizer(s.normalizer()), dataset.WithLogger(logger))
	if _, err := store.Load(ctx, posts, signals); err != nil {
		return nil, err
	}
	return store, nil
}

func newSummaryCmd(src *sourceFlags) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard view for a filter combination as JSON",
		Long: `Load the post table, apply the dashboard filters and print headline metrics
and every chart series.

Example: socialpulse-cli summary --posts posts.csv --region USA --content-type Video`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := app.FiltersFromMap(app.ScopeDashboard, filters.values())
			if err != nil {
				return err
			}
			store, err := src.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			view, err := app.NewDashboardService(store, 0).Dashboard(f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}

	addSourceFlags(cmd, src)
	cmd.Flags().StringVar(&src.signals, "signals", "", "Signal table; derived from posts when empty")
	cmd.Flags().StringVar(&filters.region, "region", "", "Region filter")
	cmd.Flags().StringVar(&filters.platform, "platform", "", "Platform filter")
	cmd.Flags().StringVar(&filters.contentType, "content-type", "", "Content type filter")
	cmd.Flags().StringVar(&filters.hashtag, "hashtag", "", "Hashtag filter")
	return cmd
}

func newRankCmd(src *sourceFlags) *cobra.Command {
	var filters filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank platforms by decayed ERR for a region, content type and hashtag",
		Long: `Rank platforms by the best decayed ERR observed under the given filters.

The signal table is read from --signals. Without it, signals are derived from
--posts; without either, a synthetic dataset is used.

Example: socialpulse-cli rank --signals signals.csv --region UK --hashtag "#Tech"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := app.FiltersFromMap(app.ScopeRecommender, map[string]string{
				string(engagement.DimRegion):      filters.region,
				string(engagement.DimContentType): filters.contentType,
				string(engagement.DimHashtag):     filters.hashtag,
			})
			if err != nil {
				return err
			}
			signals, err := src.loadSignals(cmd.Context())
			if err != nil {
				return err
			}
			ranking := recommend.RankPlatforms(signals, f)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), ranking)
			}
			return printRanking(cmd.OutOrStdout(), ranking)
		},
	}

	addSourceFlags(cmd, src)
	cmd.Flags().StringVar(&src.signals, "signals", "", "Signal table (.csv, .xlsx or .json)")
	cmd.Flags().StringVar(&filters.region, "region", "", "Region filter")
	cmd.Flags().StringVar(&filters.contentType, "content-type", "", "Content type filter")
	cmd.Flags().StringVar(&filters.hashtag, "hashtag", "", "Hashtag filter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ranking as JSON")
	return cmd
}

// loadSignals reads the signal table directly, or goes through the store to derive it from posts
func (s *sourceFlags) loadSignals(ctx context.Context) ([]engagement.PlatformSignal, error) {
	if s.signals != "" && s.posts == "" {
		_, signals := s.sources(s.logger())
		rows, err := signals.ReadRows(ctx)
		if err != nil {
			return nil, core.NewLoadError(signals.Name(), err)
		}
		return s.normalizer().Signals(rows), nil
	}
	store, err := s.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Signals, nil
}

func printRanking(w io.Writer, r recommend.Ranking) error {
	if !r.Available() {
		_, err := fmt.Fprintln(w, recommend.NoDataMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLATFORM\tSCORE\tLABEL")
	for i, p := range r.Platforms {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", i+1, p.Platform, engagement.Round2(p.Score), recommend.RankLabel(i))
	}
	return tw.Flush()
}

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc LIKES COMMENTS SHARES VIEWS",
		Short: "Compute the engagement rate of one post",
		Long: `Compute ERR = (likes + comments + shares) / views × 100 and its tier.

Inputs that are not plain non-negative integers count as 0.

Example: socialpulse-cli calc 120 14 9 2400`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := app.NewCalculationView(engagement.CalculateFromInput(map[string]string{
				engagement.InputLikes:    args[0],
				engagement.InputComments: args[1],
				engagement.InputShares:   args[2],
				engagement.InputViews:    args[3],
			}))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ERR:       %.2f%%\n", view.Value)
			fmt.Fprintf(out, "Tier:      %s\n", view.Tier)
			fmt.Fprintf(out, "Label:     %s\n", view.Label)
			fmt.Fprintf(out, "Anomalous: %t\n", view.Anomalous)
			return nil
		},
	}
}

func newDeriveSignalsCmd(src *sourceFlags) *cobra.Command {
	var asOf string
	var rate float64
	var out string

	cmd := &cobra.Command{
		Use:   "derive-signals",
		Short: "Build a platform signal table from a post table",
		Long: `Derive one signal row per post with Decayed_ERR = ERR × e^(−rate × age in days),
age being measured against --as-of (default: the latest post date).

The table is printed as CSV, or written to --out (.csv or .xlsx).

Example: socialpulse-cli derive-signals --posts posts.csv --as-of 2024-01-31 --out signals.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := src.logger()
			posts, _ := src.sources(logger)
			rows, err := posts.ReadRows(cmd.Context())
			if err != nil {
				return core.NewLoadError(posts.Name(), err)
			}
			records := src.normalizer().Posts(rows)

			ref, err := referenceDate(asOf, records)
			if err != nil {
				return err
			}
			logger.Info("Deriving %d signals as of %s at rate %.4f", len(records), ref.Format("2006-01-02"), rate)
			signalRows := normalize.SignalRows(recommend.DeriveSignals(records, ref, rate))

			if out == "" {
				return excel.WriteCSV(cmd.OutOrStdout(), normalize.SignalHeaders, signalRows)
			}
			if err := excel.WriteFile(out, src.sheet, normalize.SignalHeaders, signalRows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d signals to %s\n", len(signalRows), out)
			return nil
		},
	}

	addSourceFlags(cmd, src)
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date YYYY-MM-DD (default: latest post date)")
	cmd.Flags().Float64Var(&rate, "rate", recommend.DefaultDecayRate, "Daily decay rate")
	cmd.Flags().StringVar(&out, "out", "", "Output file (.csv or .xlsx); stdout when empty")
	return cmd
}

func referenceDate(asOf string, posts []engagement.PostRecord) (time.Time, error) {
	if asOf != "" {
		t, ok := core.ParseCalendarDate(asOf)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid --as-of date %q (use YYYY-MM-DD)", asOf)
		}
		return t, nil
	}
	latest, ok := recommend.LatestDate(posts)
	if !ok {
		return time.Time{}, fmt.Errorf("no parseable post dates; pass --as-of")
	}
	return latest, nil
}

func printJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
