package counter

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// encoding is loaded once per process; tiktoken may download it on first use.
var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

func cl100k() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		slog.Debug("Loading cl100k_base encoding")
		encoding, encodingErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoding, encodingErr
}

// TokenCounter counts tiktoken cl100k_base tokens. Safe for concurrent use.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter creates a TokenCounter, loading the encoding if needed.
func NewTokenCounter() (Counter, error) {
	enc, err := cl100k()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}
	return &TokenCounter{encoding: enc}, nil
}

// Count returns the number of tokens in text.
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(tc.encoding.Encode(text, nil, nil))
}

// Truncate keeps the first max tokens, decoded back to text.
func (tc *TokenCounter) Truncate(text string, max int) string {
	if max < 1 || text == "" {
		return text
	}

	tokens := tc.encoding.Encode(text, nil, nil)
	if len(tokens) <= max {
		return text
	}

	slog.Debug("Truncating by tokens", "tokens", len(tokens), "max", max)
	return finish(validPrefix(tc.encoding.Decode(tokens[:max])))
}

// validPrefix drops the partial rune left when a token boundary falls inside a
// multi-byte character.
func validPrefix(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// Name returns the name of this counting method (for logging and debugging).
func (tc *TokenCounter) Name() string {
	return "tokens (cl100k_base)"
}
