// Package app contains the application logic behind the kindred CLI.
// It loads a catalog, builds the recommendation space and renders results,
// keeping flag parsing in cmd/kindred.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chriscorrea/kindred/internal/analyze"
	"github.com/chriscorrea/kindred/internal/catalog"
	"github.com/chriscorrea/kindred/internal/counter"
	"github.com/chriscorrea/kindred/internal/recommend"
	"github.com/chriscorrea/kindred/internal/spinner"
)

// DefaultCount is the number of results returned when none is requested.
const DefaultCount = 5

// SpaceConfig describes where the catalog comes from and how it is analyzed.
type SpaceConfig struct {
	Catalog      string         // file path, URL, "-" for stdin, or postgres:// DSN
	Format       catalog.Format // Auto detects from Catalog
	Table        string         // PostgreSQL table (default "items")
	Stem         bool
	Tokenizer    analyze.Tokenizer
	ExplainTerms int  // explanation length; 0 uses the default
	Quiet        bool // suppress the progress spinner
}

// Config holds all options for a single recommend run.
type Config struct {
	SpaceConfig
	Query       string
	LikedIDs    []int64
	LikedTitles []string // matched case-insensitively against item titles
	Count       int      // results to return (k); 0 uses DefaultCount
	Output      OutputFormat
	Truncate    Truncation
	Debug       bool
}

// Truncation limits description length in rendered output. Max 0 disables it.
type Truncation struct {
	Max  int
	Unit counter.CountingMethod
}

// ErrUnknownTitle is returned when a liked title matches no catalog item.
var ErrUnknownTitle = errors.New("no item with that title")

// LoadSpace loads the catalog and builds the recommendation space.
// ctx covers catalog retrieval; construction itself is not interruptible.
func LoadSpace(ctx context.Context, cfg SpaceConfig) (*recommend.Space, error) {
	if strings.TrimSpace(cfg.Catalog) == "" {
		return nil, fmt.Errorf("no catalog provided")
	}

	sp := spinner.ForWriter(os.Stderr, "Loading catalog", cfg.Quiet)
	sp.Start(ctx)
	defer sp.Stop()

	items, err := catalog.Load(ctx, cfg.Catalog, catalog.Options{Format: cfg.Format, Table: cfg.Table})
	if err != nil {
		return nil, err
	}

	sp.Step(fmt.Sprintf("Building vector space for %d items", len(items)))
	space, err := recommend.Build(items,
		recommend.WithAnalyzer(analyze.New(analyze.Options{Tokenizer: cfg.Tokenizer, Stem: cfg.Stem})),
		recommend.WithExplainTerms(cfg.ExplainTerms),
	)
	if err != nil {
		return nil, fmt.Errorf("build recommendation space: %w", err)
	}

	slog.Debug("Space ready", "items", len(items), "vocabulary", space.Vectors().Dim())
	return space, nil
}

// Run executes one recommendation request and returns the rendered output.
//
// Processing Pipeline:
// 1. Load the catalog and build the space (LoadSpace)
// 2. Resolve liked titles to ids
// 3. Recommend and render in the configured format
func Run(ctx context.Context, cfg Config) (string, error) {
	space, err := LoadSpace(ctx, cfg.SpaceConfig)
	if err != nil {
		return "", err
	}
	return RunWithSpace(space, cfg)
}

// RunWithSpace is Run against an already built space.
func RunWithSpace(space *recommend.Space, cfg Config) (string, error) {
	liked, err := ResolveLiked(space, cfg.LikedIDs, cfg.LikedTitles)
	if err != nil {
		return "", err
	}

	k := cfg.Count
	if k == 0 {
		k = DefaultCount
	}

	results, err := space.Recommend(cfg.Query, liked, k)
	if err != nil {
		return "", err
	}

	results, err = truncateDescriptions(results, cfg.Truncate)
	if err != nil {
		return "", err
	}

	return Render(Report{Query: strings.TrimSpace(cfg.Query), Liked: liked, Results: results}, cfg.Output)
}

// ResolveLiked merges liked ids with the ids of items whose title matches one of
// titles, ignoring case and surrounding space. Unknown ids pass through (the
// engine ignores them); unknown titles are an error since they were typed by hand.
// When several items share a title all of them are liked.
func ResolveLiked(space *recommend.Space, ids []int64, titles []string) ([]int64, error) {
	liked := make([]int64, 0, len(ids))
	liked = append(liked, ids...)
	if len(titles) == 0 {
		return liked, nil
	}

	byTitle := make(map[string][]int64)
	for _, it := range space.Items() {
		key := normalizeTitle(it.Title)
		byTitle[key] = append(byTitle[key], it.ID)
	}

	for _, title := range titles {
		matches, ok := byTitle[normalizeTitle(title)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTitle, title)
		}
		liked = append(liked, matches...)
	}
	return liked, nil
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// truncateDescriptions shortens each result's description to t.Max units.
// The input slice is not modified.
func truncateDescriptions(results []recommend.Result, t Truncation) ([]recommend.Result, error) {
	if t.Max <= 0 {
		return results, nil
	}

	c, err := counter.NewCounter(t.Unit)
	if err != nil {
		return nil, fmt.Errorf("description limit: %w", err)
	}

	out := make([]recommend.Result, len(results))
	shortened := 0
	for i, r := range results {
		if c.Count(r.Description) > t.Max {
			shortened++
		}
		r.Description = c.Truncate(r.Description, t.Max)
		out[i] = r
	}
	slog.Debug("Descriptions truncated", "shortened", shortened, "limit", t.Max, "unit", c.Name())
	return out, nil
}
