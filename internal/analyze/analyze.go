// Package analyze turns free text into the terms that span the recommendation vector space.
//
// Text is lower-cased, split into word tokens, stripped of English stop words and
// (optionally) stemmed. The surviving tokens are then expanded into n-grams: with the
// default settings every unigram plus every pair of adjacent surviving tokens.
//
// Usage Example:
//
//	a := analyze.Default()
//	terms := a.Terms("A funny film about cats")
//	// []string{"funny", "film", "cats", "funny film", "film cats"}
package analyze

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"
)

// tokenRegex matches word tokens of at least two letters, digits or underscores.
var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenizer selects how text is split into word tokens.
type Tokenizer int

const (
	// Regexp splits on anything that is not a letter, digit or underscore (default)
	Regexp Tokenizer = iota
	// Prose uses the prose tokenizer, then applies the Regexp rules to each of its tokens
	Prose
)

// String returns the flag/env spelling of the tokenizer.
func (t Tokenizer) String() string {
	switch t {
	case Regexp:
		return "regexp"
	case Prose:
		return "prose"
	default:
		return "unknown"
	}
}

// ParseTokenizer maps a flag or env value onto a Tokenizer.
func ParseTokenizer(s string) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regexp", "regex":
		return Regexp, nil
	case "prose":
		return Prose, nil
	default:
		return Regexp, fmt.Errorf("unknown tokenizer %q (want regexp or prose)", s)
	}
}

// Options configures an Analyzer. The zero value matches Default.
type Options struct {
	Tokenizer Tokenizer
	Stem      bool // apply the English snowball stemmer to surviving tokens
	MaxNGram  int  // longest n-gram emitted; values below 1 mean 2
}

// Analyzer extracts terms from text. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	tokenizer Tokenizer
	stem      bool
	maxNGram  int
}

// New creates an Analyzer from opts.
func New(opts Options) *Analyzer {
	maxNGram := opts.MaxNGram
	if maxNGram < 1 {
		maxNGram = 2
	}
	return &Analyzer{
		tokenizer: opts.Tokenizer,
		stem:      opts.Stem,
		maxNGram:  maxNGram,
	}
}

// Default returns an Analyzer emitting unstemmed unigrams and bigrams.
func Default() *Analyzer {
	return New(Options{})
}

// Options reports the settings the analyzer was built with.
func (a *Analyzer) Options() Options {
	return Options{Tokenizer: a.tokenizer, Stem: a.stem, MaxNGram: a.maxNGram}
}

// Tokens returns the lower-cased word tokens of text with stop words removed
// (and stemmed, when enabled), in order of appearance.
func (a *Analyzer) Tokens(text string) []string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	var raw []string
	switch a.tokenizer {
	case Prose:
		raw = proseTokens(text)
	default:
		raw = tokenRegex.FindAllString(text, -1)
	}

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopWord(tok) {
			continue
		}
		if a.stem {
			stemmed, err := snowball.Stem(tok, "english", true)
			if err == nil && stemmed != "" {
				tok = stemmed
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Terms returns every n-gram (1..MaxNGram) over the surviving tokens of text.
// Unigrams come first, followed by bigrams and so on; duplicates are preserved
// so callers can count occurrences.
func (a *Analyzer) Terms(text string) []string {
	tokens := a.Tokens(text)
	if len(tokens) == 0 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*a.maxNGram)
	terms = append(terms, tokens...)
	for n := 2; n <= a.maxNGram; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// proseTokens splits text with the prose tokenizer. Each prose token is
// re-split with tokenRegex so punctuation and contraction fragments drop out.
func proseTokens(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		slog.Debug("prose tokenization failed, using regexp", "error", err)
		return tokenRegex.FindAllString(text, -1)
	}

	var out []string
	for _, tok := range doc.Tokens() {
		out = append(out, tokenRegex.FindAllString(tok.Text, -1)...)
	}
	return out
}
