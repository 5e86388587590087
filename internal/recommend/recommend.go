// Package recommend ranks catalog items against a free-text query and/or a set of
// liked items, and explains each result by the terms that contributed most to its score.
//
// A Space is built once from the catalog and reused for every request:
//
//	space, err := recommend.Build(items)
//	results, err := space.Recommend("funny cat comedy", []int64{12}, 5)
//
// Per request, liked items are averaged into a profile vector, the query is projected
// into the same TF-IDF space, and the two are averaged into a single interest vector.
// Items are ranked by cosine similarity to it (ties keep catalog order), liked items
// are removed and the list is cut to k. With neither a query nor a known liked item
// every score is 0 and results come back in catalog order with empty explanations.
//
// A built Space is read-only, so Recommend may be called concurrently.
package recommend

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/chriscorrea/kindred/internal/analyze"
	"github.com/chriscorrea/kindred/internal/catalog"
	"github.com/chriscorrea/kindred/internal/tfidf"
)

// DefaultExplainTerms is how many terms each result's explanation carries.
const DefaultExplainTerms = 5

// Explanation is one term's share of a result's score.
type Explanation struct {
	Term         string  `json:"term"`
	Contribution float64 `json:"contribution"`
}

// Result is one recommended item.
type Result struct {
	ItemID      int64         `json:"item_id"`
	Title       string        `json:"title"`
	Genres      string        `json:"genres"`
	Description string        `json:"description"`
	Score       float64       `json:"score"`
	Why         []Explanation `json:"why"`
}

// Space is a catalog plus its TF-IDF vector space.
type Space struct {
	vectors      *tfidf.Space
	items        []catalog.Item
	byID         map[int64]int // item id -> catalog position
	explainTerms int
	logger       *slog.Logger
	fingerprint  string
}

// Option configures Build.
type Option func(*options)

type options struct {
	analyzer     *analyze.Analyzer
	explainTerms int
	logger       *slog.Logger
}

// WithAnalyzer sets the analyzer used for both catalog and query text.
func WithAnalyzer(a *analyze.Analyzer) Option {
	return func(o *options) { o.analyzer = a }
}

// WithExplainTerms sets the explanation length. Values below 1 are ignored.
func WithExplainTerms(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.explainTerms = n
		}
	}
}

// WithLogger sets the logger for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Build creates a Space from items in catalog order. Items must have unique ids
// (see catalog.Normalize).
func Build(items []catalog.Item, opts ...Option) (*Space, error) {
	o := options{explainTerms: DefaultExplainTerms, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	docs := make([]string, len(items))
	byID := make(map[int64]int, len(items))
	for i, it := range items {
		docs[i] = it.Content()
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("item %d: %w", it.ID, catalog.ErrDuplicateID)
		}
		byID[it.ID] = i
	}

	vectors, err := tfidf.Build(docs, o.analyzer)
	if err != nil {
		return nil, err
	}

	s := &Space{
		vectors:      vectors,
		items:        append([]catalog.Item(nil), items...),
		byID:         byID,
		explainTerms: o.explainTerms,
		logger:       o.logger,
	}
	s.fingerprint = s.hash()
	return s, nil
}

// Fingerprint identifies everything that shapes a result: item text, analyzer
// settings and explanation length. Spaces with equal fingerprints answer every
// request identically.
func (s *Space) Fingerprint() string {
	return s.fingerprint
}

func (s *Space) hash() string {
	h := sha256.New()
	var buf [8]byte
	writeInt := func(n int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	writeString := func(str string) {
		writeInt(int64(len(str)))
		h.Write([]byte(str))
	}

	opts := s.vectors.Analyzer().Options()
	writeString(opts.Tokenizer.String())
	if opts.Stem {
		writeInt(1)
	} else {
		writeInt(0)
	}
	writeInt(int64(opts.MaxNGram))
	writeInt(int64(s.explainTerms))

	writeInt(int64(len(s.items)))
	for _, it := range s.items {
		writeInt(it.ID)
		writeString(it.Title)
		writeString(it.Genres)
		writeString(it.Description)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Recommend is the free-function form of (*Space).Recommend.
func Recommend(space *Space, query string, likedIDs []int64, k int) ([]Result, error) {
	return space.Recommend(query, likedIDs, k)
}

// Recommend returns at most k items ranked against query and the liked items.
// Liked ids absent from the catalog are ignored; liked items are never returned.
func (s *Space) Recommend(query string, likedIDs []int64, k int) ([]Result, error) {
	if k < 1 {
		return nil, &InvalidRequestError{Field: "k", Reason: fmt.Sprintf("must be at least 1, got %d", k)}
	}

	liked := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	interest, ok := s.interest(strings.TrimSpace(query), liked)
	if ok {
		s.checkDim(interest)
	}

	scores := make([]float64, len(s.items))
	order := make([]int, len(s.items))
	for i := range s.items {
		order[i] = i
		if ok {
			scores[i] = tfidf.Cosine(interest, s.vectors.Row(i))
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]Result, 0, min(k, len(s.items)))
	for _, pos := range order {
		if len(results) == k {
			break
		}
		it := s.items[pos]
		if liked[it.ID] {
			continue
		}
		why := []Explanation{}
		if ok {
			why = s.explain(interest, pos)
		}
		results = append(results, Result{
			ItemID:      it.ID,
			Title:       it.Title,
			Genres:      it.Genres,
			Description: it.Description,
			Score:       round(scores[pos]),
			Why:         why,
		})
	}

	s.logger.Debug("Recommendation computed",
		"queryLength", len(query), "liked", len(liked), "k", k,
		"degenerate", !ok, "results", len(results))
	return results, nil
}

// interest combines the query vector and the liked-item profile. ok is false when
// neither exists: no query after trimming and no liked id found in the catalog.
func (s *Space) interest(query string, liked map[int64]bool) (tfidf.Vector, bool) {
	var parts []tfidf.Vector

	if query != "" {
		parts = append(parts, s.vectors.Transform(query))
	}

	// profile rows are summed in catalog order so the result does not depend
	// on the order of the liked ids
	var profile []tfidf.Vector
	for i, it := range s.items {
		if liked[it.ID] {
			profile = append(profile, s.vectors.Row(i))
		}
	}
	if len(profile) > 0 {
		parts = append(parts, tfidf.Mean(profile...))
	}

	if len(parts) == 0 {
		return tfidf.Vector{}, false
	}
	return tfidf.Mean(parts...), true
}

// checkDim panics if v references a position outside the vocabulary; that can
// only happen if a vector from another space was mixed in.
func (s *Space) checkDim(v tfidf.Vector) {
	if n := len(v.Indices); n > 0 && v.Indices[n-1] >= s.vectors.Dim() {
		panic(fmt.Sprintf("recommend: vector position %d outside vocabulary of %d terms", v.Indices[n-1], s.vectors.Dim()))
	}
}

// explain returns the top terms of interest ∘ row, highest contribution first,
// ties by vocabulary position. Zero contributions are never listed.
func (s *Space) explain(interest tfidf.Vector, pos int) []Explanation {
	product := interest.Hadamard(s.vectors.Row(pos))

	idx := make([]int, product.Len())
	for i := range idx {
		idx[i] = i
	}
	// Indices are ascending, so a stable sort keeps vocabulary order on ties
	sort.SliceStable(idx, func(a, b int) bool {
		return product.Values[idx[a]] > product.Values[idx[b]]
	})

	n := min(s.explainTerms, len(idx))
	why := make([]Explanation, 0, n)
	for _, i := range idx[:n] {
		why = append(why, Explanation{
			Term:         s.vectors.Term(product.Indices[i]),
			Contribution: round(product.Values[i]),
		})
	}
	return why
}

// Item returns the catalog entry with the given id.
func (s *Space) Item(id int64) (catalog.Item, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return catalog.Item{}, false
	}
	return s.items[pos], true
}

// Items returns the catalog in its original order. The slice is a copy.
func (s *Space) Items() []catalog.Item {
	return append([]catalog.Item(nil), s.items...)
}

// Vocabulary returns the vocabulary terms in position order.
func (s *Space) Vocabulary() []string {
	return s.vectors.Vocabulary()
}

// Vectors exposes the underlying TF-IDF space (item matrix, transform, idf).
func (s *Space) Vectors() *tfidf.Space {
	return s.vectors
}

// TopTerms returns the n highest-weighted terms of an item's own vector,
// ties by vocabulary position. ok is false for unknown ids.
func (s *Space) TopTerms(id int64, n int) ([]Explanation, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	row := s.vectors.Row(pos)

	idx := make([]int, row.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return row.Values[idx[a]] > row.Values[idx[b]]
	})
	if n < 0 || n > len(idx) {
		n = len(idx)
	}

	terms := make([]Explanation, 0, n)
	for _, i := range idx[:n] {
		terms = append(terms, Explanation{
			Term:         s.vectors.Term(row.Indices[i]),
			Contribution: round(row.Values[i]),
		})
	}
	return terms, true
}

// round keeps four decimal places.
func round(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
