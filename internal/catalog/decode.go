package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// column aliases accepted in CSV headers, keyed by canonical name
var columnAliases = map[string][]string{
	"item_id":     {"item_id", "id", "itemid"},
	"title":       {"title", "name"},
	"genres":      {"genres", "genre", "tags"},
	"description": {"description", "overview", "desc", "summary"},
}

// DecodeCSV reads a catalog with a header row. item_id is required; the
// other columns may be absent, in which case the field is empty.
func DecodeCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := headerIndex(header)
	if _, ok := idx["item_id"]; !ok {
		return nil, fmt.Errorf("csv header %v has no item_id column", header)
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var items []Item
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		id, err := parseID(field(row, "item_id"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		items = append(items, Item{
			ID:          id,
			Title:       field(row, "title"),
			Genres:      field(row, "genres"),
			Description: field(row, "description"),
		})
	}
	return items, nil
}

// headerIndex maps canonical column names to their position in header.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		for canonical, aliases := range columnAliases {
			if _, taken := idx[canonical]; taken {
				continue
			}
			for _, alias := range aliases {
				if col == alias {
					idx[canonical] = i
				}
			}
		}
	}
	return idx
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing item_id")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item_id %q: %w", s, err)
	}
	return id, nil
}

// record is the loose on-disk shape shared by JSON and YAML catalogs.
type record struct {
	ID          *int64 `json:"item_id" yaml:"item_id"`
	Title       string `json:"title" yaml:"title"`
	Genres      tags   `json:"genres" yaml:"genres"`
	Description string `json:"description" yaml:"description"`
}

// tags accepts either a single string or a list of strings.
type tags string

func (t *tags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = tags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("genres must be a string or a list of strings")
	}
	*t = tags(joinTags(list))
	return nil
}

func (t *tags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = tags(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = tags(joinTags(list))
		return nil
	default:
		return fmt.Errorf("line %d: genres must be a string or a list of strings", node.Line)
	}
}

func (r record) item(pos int) (Item, error) {
	if r.ID == nil {
		return Item{}, fmt.Errorf("item %d: missing item_id", pos+1)
	}
	return Item{
		ID:          *r.ID,
		Title:       r.Title,
		Genres:      string(r.Genres),
		Description: r.Description,
	}, nil
}

func fromRecords(records []record) ([]Item, error) {
	items := make([]Item, 0, len(records))
	for i, r := range records {
		it, err := r.item(i)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// DecodeJSON reads a JSON array of items, or an object with an "items" array.
func DecodeJSON(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped struct {
			Items []record `json:"items"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		records = wrapped.Items
	}
	return fromRecords(records)
}

// DecodeYAML reads a YAML sequence of items, or a mapping with an "items" sequence.
func DecodeYAML(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		var wrapped struct {
			Items []record `yaml:"items"`
		}
		if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		records = wrapped.Items
	}
	return fromRecords(records)
}
