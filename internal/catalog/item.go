// Package catalog loads the item catalog the recommender is built from.
//
// Catalogs arrive as CSV (the default), JSON, YAML or a PostgreSQL table. Every
// decoder produces the same Item record; text fields are normalized at this
// boundary (HTML in descriptions flattened, whitespace collapsed, missing values
// made empty) so scoring code never sees nulls or markup.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriscorrea/kindred/internal/extract"
)

// Item is one catalog entry.
type Item struct {
	ID          int64  `json:"item_id" yaml:"item_id"`
	Title       string `json:"title" yaml:"title"`
	Genres      string `json:"genres" yaml:"genres"`
	Description string `json:"description" yaml:"description"`
}

// Content is the text the vector space is built from: genres and description
// joined by a space.
func (it Item) Content() string {
	return it.Genres + " " + it.Description
}

// ErrDuplicateID is wrapped by Normalize when two items share an id.
var ErrDuplicateID = errors.New("duplicate item_id")

// Normalize cleans text fields in place and checks that ids are unique.
// Order is preserved.
func Normalize(items []Item) ([]Item, error) {
	seen := make(map[int64]int, len(items))
	for i := range items {
		it := &items[i]
		if prev, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("row %d: %w %d (first seen at row %d)", i+1, ErrDuplicateID, it.ID, prev+1)
		}
		seen[it.ID] = i

		it.Title = collapse(it.Title)
		it.Genres = collapse(it.Genres)
		it.Description = extract.PlainText(it.Description)
	}
	return items, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// joinTags flattens a tag list into the space-separated text form used by Item.Genres.
func joinTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
