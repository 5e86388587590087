// Package tfidf builds a fixed TF-IDF vector space over a collection of documents.
//
// Construction performs a one-time analysis of every document: it collects the
// vocabulary (all unigram and bigram terms produced by the analyzer), computes a
// smoothed inverse document frequency for each term and weights each document's
// raw term counts by it. Every row is L2-normalized, so the item matrix holds
// unit vectors (or zero vectors for documents without terms).
//
// The TF-IDF weighting combines:
//   - Term Frequency (TF): raw count of a term in the document
//   - Inverse Document Frequency (IDF): ln((1+n)/(1+df)) + 1, always >= 1
//
// Usage Example:
//
//	space, err := tfidf.Build(documents, analyze.Default())
//	query := space.Transform("funny cat comedy")
//	sim := tfidf.Cosine(query, space.Row(0))
//
// A built Space is immutable; concurrent reads are safe.
package tfidf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/chriscorrea/kindred/internal/analyze"
)

var (
	// ErrEmptyCatalog is returned when there are no documents to build from.
	ErrEmptyCatalog = errors.New("catalog has no items")
	// ErrDegenerateVocabulary is returned when no document yields a single term.
	ErrDegenerateVocabulary = errors.New("catalog text yields no terms after stop-word removal")
)

// Space is the frozen vocabulary plus the TF-IDF item matrix.
type Space struct {
	analyzer *analyze.Analyzer
	terms    []string       // vocabulary in position order
	index    map[string]int // term -> position
	idf      []float64      // idf per position
	rows     []Vector       // item matrix, aligned with input documents
}

// Build analyzes documents and returns the resulting vector space.
// A nil analyzer means analyze.Default().
func Build(documents []string, analyzer *analyze.Analyzer) (*Space, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCatalog
	}
	if analyzer == nil {
		analyzer = analyze.Default()
	}

	slog.Debug("Building TF-IDF space", "documentCount", len(documents))

	// count terms per document and document frequency per term
	counts := make([]map[string]int, len(documents))
	docFreq := make(map[string]int)
	for i, doc := range documents {
		c := make(map[string]int)
		for _, term := range analyzer.Terms(doc) {
			c[term]++
		}
		for term := range c {
			docFreq[term]++
		}
		counts[i] = c
	}

	if len(docFreq) == 0 {
		return nil, ErrDegenerateVocabulary
	}

	// lexicographic order gives every term a stable position
	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	s := &Space{
		analyzer: analyzer,
		terms:    terms,
		index:    make(map[string]int, len(terms)),
		idf:      make([]float64, len(terms)),
		rows:     make([]Vector, len(documents)),
	}

	n := float64(len(documents))
	for pos, term := range terms {
		s.index[term] = pos
		s.idf[pos] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for i, c := range counts {
		s.rows[i] = s.weigh(c)
	}

	slog.Debug("TF-IDF space built", "documents", len(documents), "vocabulary", len(terms))
	return s, nil
}

// weigh turns raw term counts into an L2-normalized TF-IDF vector,
// dropping terms outside the vocabulary.
func (s *Space) weigh(counts map[string]int) Vector {
	weights := make(map[int]float64, len(counts))
	for term, count := range counts {
		pos, ok := s.index[term]
		if !ok {
			continue
		}
		weights[pos] = float64(count) * s.idf[pos]
	}

	v := newVector(weights)
	if norm := v.Norm(); norm > 0 {
		v = v.Scale(1 / norm)
	}
	return v
}

// Transform projects arbitrary text into the space. Terms not in the
// vocabulary are dropped; text without known terms yields the zero vector.
func (s *Space) Transform(text string) Vector {
	counts := make(map[string]int)
	for _, term := range s.analyzer.Terms(text) {
		counts[term]++
	}
	return s.weigh(counts)
}

// Vocabulary returns the terms in position order. The slice is a copy.
func (s *Space) Vocabulary() []string {
	return append([]string(nil), s.terms...)
}

// Term returns the term at vocabulary position pos.
func (s *Space) Term(pos int) string {
	return s.terms[pos]
}

// Dim returns the vocabulary size, i.e. the dimensionality of every vector.
func (s *Space) Dim() int {
	return len(s.terms)
}

// IDF returns the inverse document frequency of term and whether it is in the vocabulary.
func (s *Space) IDF(term string) (float64, bool) {
	pos, ok := s.index[term]
	if !ok {
		return 0, false
	}
	return s.idf[pos], true
}

// Len returns the number of rows in the item matrix.
func (s *Space) Len() int {
	return len(s.rows)
}

// Row returns the vector of document i. It panics if i is out of range.
func (s *Space) Row(i int) Vector {
	if i < 0 || i >= len(s.rows) {
		panic(fmt.Sprintf("tfidf: row %d out of range [0,%d)", i, len(s.rows)))
	}
	return s.rows[i]
}

// ItemMatrix returns the rows of the item matrix in document order.
// The outer slice is a copy; the vectors must be treated as read-only.
func (s *Space) ItemMatrix() []Vector {
	return append([]Vector(nil), s.rows...)
}

// Analyzer returns the analyzer used to build the space.
func (s *Space) Analyzer() *analyze.Analyzer {
	return s.analyzer
}
