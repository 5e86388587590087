package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/chriscorrea/kindred/internal/recommend"
)

// VocabReport describes the vector space, or one item's strongest terms.
type VocabReport struct {
	Items      int         `json:"items"`
	Dimensions int         `json:"dimensions"`
	Terms      []string    `json:"terms,omitempty"`
	ItemID     *int64      `json:"item_id,omitempty"`
	TopTerms   []VocabTerm `json:"top_terms,omitempty"`
}

// VocabTerm is one term of an item's vector: its weight there and its idf
// across the catalog.
type VocabTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
	IDF    float64 `json:"idf"`
}

// Vocab builds a report of the whole vocabulary, or, when itemID is non-nil,
// of that item's top n terms by weight (n < 1 lists all of them).
func Vocab(space *recommend.Space, itemID *int64, n int) (VocabReport, error) {
	report := VocabReport{
		Items:      len(space.Items()),
		Dimensions: space.Vectors().Dim(),
	}
	if itemID == nil {
		report.Terms = space.Vocabulary()
		if n > 0 && n < len(report.Terms) {
			report.Terms = report.Terms[:n]
		}
		return report, nil
	}

	if n < 1 {
		n = -1
	}
	terms, ok := space.TopTerms(*itemID, n)
	if !ok {
		return VocabReport{}, fmt.Errorf("item %d not in catalog", *itemID)
	}
	report.ItemID = itemID
	report.TopTerms = make([]VocabTerm, 0, len(terms))
	for _, t := range terms {
		idf, _ := space.Vectors().IDF(t.Term)
		report.TopTerms = append(report.TopTerms, VocabTerm{Term: t.Term, Weight: t.Contribution, IDF: round(idf)})
	}
	return report, nil
}

// RenderVocab formats a VocabReport. Markdown and Text share a plain layout.
func RenderVocab(r VocabReport, format OutputFormat) (string, error) {
	if format == JSON {
		return renderJSON(r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d items, %d terms\n", r.Items, r.Dimensions)
	if r.ItemID != nil {
		fmt.Fprintf(&b, "\nTop terms for item %d:\n", *r.ItemID)
		fmt.Fprintf(&b, "  %-30s %-8s %s\n", "term", "weight", "idf")
		for _, t := range r.TopTerms {
			fmt.Fprintf(&b, "  %-30s %-8.4f %.4f\n", t.Term, t.Weight, t.IDF)
		}
		return b.String(), nil
	}
	if len(r.Terms) > 0 {
		b.WriteString("\n")
		for _, t := range r.Terms {
			fmt.Fprintf(&b, "%s\n", t)
		}
	}
	return b.String(), nil
}

func round(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
