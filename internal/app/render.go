package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chriscorrea/kindred/internal/recommend"
)

// OutputFormat defines the output format for results
type OutputFormat int

const (
	// markdown output format (default)
	Markdown OutputFormat = iota
	// plaintext output format
	Text
	// JSON output format
	JSON
)

// String returns the string representation of the output
func (f OutputFormat) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Report is everything a rendered recommendation run shows.
type Report struct {
	Query   string             `json:"query"`
	Liked   []int64            `json:"liked"`
	Results []recommend.Result `json:"results"`
}

// Render formats a report. Every format ends with a newline.
func Render(r Report, format OutputFormat) (string, error) {
	switch format {
	case JSON:
		return renderJSON(r)
	case Text:
		return renderText(r), nil
	default:
		return renderMarkdown(r), nil
	}
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data) + "\n", nil
}

func renderMarkdown(r Report) string {
	var b strings.Builder
	if len(r.Results) == 0 {
		b.WriteString("_No recommendations._\n")
		return b.String()
	}

	for i, res := range r.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, res.Title)
		if res.Genres != "" {
			fmt.Fprintf(&b, "*%s*  \n", res.Genres)
		}
		fmt.Fprintf(&b, "Score: %.4f\n\n", res.Score)
		if res.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", res.Description)
		}

		if len(res.Why) == 0 {
			b.WriteString("_No matching terms._\n")
			continue
		}
		b.WriteString("| term | contribution |\n|---|---|\n")
		for _, e := range res.Why {
			fmt.Fprintf(&b, "| %s | %.4f |\n", e.Term, e.Contribution)
		}
	}
	return b.String()
}

func renderText(r Report) string {
	var b strings.Builder
	if len(r.Results) == 0 {
		b.WriteString("No recommendations.\n")
		return b.String()
	}

	for i, res := range r.Results {
		fmt.Fprintf(&b, "%d. %s", i+1, res.Title)
		if res.Genres != "" {
			fmt.Fprintf(&b, " [%s]", res.Genres)
		}
		fmt.Fprintf(&b, " score=%.4f\n", res.Score)
		if res.Description != "" {
			fmt.Fprintf(&b, "   %s\n", res.Description)
		}
		if len(res.Why) > 0 {
			terms := make([]string, len(res.Why))
			for j, e := range res.Why {
				terms[j] = fmt.Sprintf("%s (%.4f)", e.Term, e.Contribution)
			}
			fmt.Fprintf(&b, "   why: %s\n", strings.Join(terms, ", "))
		}
	}
	return b.String()
}
