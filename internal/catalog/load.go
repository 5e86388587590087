package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/chriscorrea/kindred/internal/fetch"
)

// Format identifies how a catalog source is encoded.
type Format int

const (
	// Auto picks a format from the source (URL scheme or file extension)
	Auto Format = iota
	CSV
	JSON
	YAML
	Postgres
)

// String returns the flag/env spelling of the format.
func (f Format) String() string {
	switch f {
	case Auto:
		return "auto"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case Postgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// ParseFormat maps a flag or env value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	default:
		return Auto, fmt.Errorf("unknown catalog format %q", s)
	}
}

// DetectFormat guesses the format of source. Unknown extensions and stdin are CSV.
func DetectFormat(source string) Format {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres
	}
	if i := strings.IndexAny(lower, "?#"); i >= 0 && fetch.KindOf(source) == fetch.URL {
		lower = lower[:i]
	}
	switch path.Ext(lower) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return CSV
	}
}

// Options controls Load.
type Options struct {
	Format Format
	Table  string // PostgreSQL table; defaults to "items"
}

// Load reads, decodes and normalizes the catalog at source.
func Load(ctx context.Context, source string, opts Options) ([]Item, error) {
	format := opts.Format
	if format == Auto {
		format = DetectFormat(source)
	}
	slog.Debug("Loading catalog", "source", redact(source), "format", format)

	var (
		items []Item
		err   error
	)
	if format == Postgres {
		items, err = LoadPostgres(ctx, source, opts.Table)
	} else {
		items, err = loadStream(ctx, source, format)
	}
	if err != nil {
		return nil, err
	}

	items, err = Normalize(items)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", redact(source), err)
	}

	slog.Debug("Catalog loaded", "items", len(items))
	return items, nil
}

func loadStream(ctx context.Context, source string, format Format) ([]Item, error) {
	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer reader.Close()

	var items []Item
	switch format {
	case JSON:
		items, err = DecodeJSON(reader)
	case YAML:
		items, err = DecodeYAML(reader)
	default:
		items, err = DecodeCSV(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s catalog %s: %w", format, source, err)
	}
	return items, nil
}

// redact hides credentials in connection strings before they reach logs.
func redact(source string) string {
	at := strings.LastIndex(source, "@")
	scheme := strings.Index(source, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return source
	}
	return source[:scheme+3] + "***" + source[at:]
}
