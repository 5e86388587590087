package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Item
		wantErr string
	}{
		{
			name:  "full header",
			input: "item_id,title,genres,description\n1,A,comedy,a funny film about cats\n2,B,drama,\"a sad film, about dogs\"\n",
			want: []Item{
				{ID: 1, Title: "A", Genres: "comedy", Description: "a funny film about cats"},
				{ID: 2, Title: "B", Genres: "drama", Description: "a sad film, about dogs"},
			},
		},
		{
			name:  "aliases and reordered columns",
			input: "Overview,ID,Name\nspace heist,7,Nebula\n",
			want:  []Item{{ID: 7, Title: "Nebula", Description: "space heist"}},
		},
		{
			name:  "missing genres column and short rows",
			input: "item_id,title,description\n3,C\n",
			want:  []Item{{ID: 3, Title: "C"}},
		},
		{
			name:  "blank rows skipped",
			input: "item_id,title\n1,A\n,\n2,B\n",
			want:  []Item{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Item{},
		},
		{
			name:    "no id column",
			input:   "title,genres\nA,comedy\n",
			wantErr: "no item_id column",
		},
		{
			name:    "bad id",
			input:   "item_id,title\nabc,A\n",
			wantErr: "invalid item_id",
		},
		{
			name:    "missing id value",
			input:   "item_id,title\n,A\n",
			wantErr: "missing item_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("DecodeCSV() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCSV() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeCSV() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	input := `[
		{"item_id": 1, "title": "A", "genres": ["comedy", "family"], "description": "cats"},
		{"item_id": 2, "title": "B", "genres": "drama"}
	]`
	got, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	want := []Item{
		{ID: 1, Title: "A", Genres: "comedy family", Description: "cats"},
		{ID: 2, Title: "B", Genres: "drama"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeJSON() = %+v, want %+v", got, want)
	}

	wrapped, err := DecodeJSON(strings.NewReader(`{"items": [{"item_id": 9, "title": "Z"}]}`))
	if err != nil {
		t.Fatalf("DecodeJSON(wrapped) error = %v", err)
	}
	if len(wrapped) != 1 || wrapped[0].ID != 9 {
		t.Errorf("DecodeJSON(wrapped) = %+v", wrapped)
	}

	if _, err := DecodeJSON(strings.NewReader(`[{"title": "no id"}]`)); err == nil {
		t.Error("DecodeJSON() without item_id should fail")
	}
}

func TestDecodeYAML(t *testing.T) {
	input := `
- item_id: 1
  title: A
  genres: [comedy, family]
  description: a funny film about cats
- item_id: 2
  title: B
  genres: drama
`
	got, err := DecodeYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	want := []Item{
		{ID: 1, Title: "A", Genres: "comedy family", Description: "a funny film about cats"},
		{ID: 2, Title: "B", Genres: "drama"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAML() = %+v, want %+v", got, want)
	}

	wrapped, err := DecodeYAML(strings.NewReader("items:\n  - item_id: 4\n    title: D\n"))
	if err != nil {
		t.Fatalf("DecodeYAML(wrapped) error = %v", err)
	}
	if len(wrapped) != 1 || wrapped[0].ID != 4 {
		t.Errorf("DecodeYAML(wrapped) = %+v", wrapped)
	}
}

func TestNormalize(t *testing.T) {
	items := []Item{
		{ID: 1, Title: "  A ", Genres: "comedy", Description: "<p>a <b>funny</b> film</p>"},
		{ID: 2, Title: "B"},
		{ID: 3, Title: "Rock <Roll>  Live", Genres: "<b>music</b>", Description: "Rock <Roll> Live"},
	}
	got, err := Normalize(items)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got[0].Title != "A" || got[0].Description != "a funny film" {
		t.Errorf("Normalize() = %+v", got[0])
	}
	// only descriptions are flattened, and only known elements count as markup
	if got[2].Title != "Rock <Roll> Live" || got[2].Genres != "<b>music</b>" || got[2].Description != "Rock <Roll> Live" {
		t.Errorf("Normalize() = %+v", got[2])
	}

	_, err = Normalize([]Item{{ID: 1}, {ID: 2}, {ID: 1}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Normalize() duplicate error = %v, want ErrDuplicateID", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		source string
		want   Format
	}{
		{"items.csv", CSV},
		{"items.JSON", JSON},
		{"catalog.yml", YAML},
		{"catalog.yaml", YAML},
		{"-", CSV},
		{"https://example.com/items.json?token=x", JSON},
		{"postgres://user:pw@localhost/db", Postgres},
		{"data/items", CSV},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := DetectFormat(tt.source); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Auto, "CSV": CSV, "yml": YAML, "pg": Postgres} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("parquet"); err == nil {
		t.Error("ParseFormat(parquet) should fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	content := "- item_id: 1\n  title: A\n  description: \"<em>cats</em>\"\n- item_id: 2\n  title: B\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	items, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(items) != 2 || items[0].Description != "cats" {
		t.Errorf("Load() = %+v", items)
	}

	dup := filepath.Join(dir, "dup.csv")
	if err := os.WriteFile(dup, []byte("item_id,title\n1,A\n1,B\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), dup, Options{}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Load(dup) error = %v, want ErrDuplicateID", err)
	}
}

func TestSelectItemsSQL(t *testing.T) {
	got := selectItemsSQL("catalog.items")
	if !strings.Contains(got, `FROM "catalog"."items"`) {
		t.Errorf("selectItemsSQL() = %s", got)
	}
	if !strings.Contains(selectItemsSQL(`x"; DROP TABLE y; --`), `"x""; DROP TABLE y; --"`) {
		t.Error("selectItemsSQL() did not quote hostile table name")
	}
}

func TestGenresText(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{"null", nil, "", false},
		{"text", "comedy drama", "comedy drama", false},
		{"text array", []any{"comedy", nil, " drama ", ""}, "comedy drama", false},
		{"string slice", []string{"sci-fi", "horror"}, "sci-fi horror", false},
		{"number", int64(7), "", true},
		{"number array", []any{int32(1)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := genresText(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("genresText(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("genresText(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if sql := selectItemsSQL("items"); strings.Contains(sql, "COALESCE(genres") {
		t.Errorf("genres must reach the scanner uncast: %s", sql)
	}
}

func TestRedact(t *testing.T) {
	if got := redact("postgres://user:secret@db:5432/app"); strings.Contains(got, "secret") {
		t.Errorf("redact() leaked credentials: %s", got)
	}
	if got := redact("items.csv"); got != "items.csv" {
		t.Errorf("redact(items.csv) = %s", got)
	}
}

func TestItemContent(t *testing.T) {
	it := Item{Genres: "comedy", Description: "cats"}
	if it.Content() != "comedy cats" {
		t.Errorf("Content() = %q", it.Content())
	}
}
