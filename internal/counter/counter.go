// Package counter measures and shortens description text for display.
//
// Long catalog descriptions are cut to a limit before results are rendered. The
// limit can be expressed in words, characters or model tokens (tiktoken's
// cl100k_base encoding), so output can be sized for a terminal or for a prompt.
//
// Usage Example:
//
//	c, err := counter.NewCounter(counter.Words)
//	short := c.Truncate(item.Description, 40)
package counter

import (
	"fmt"
	"strings"
)

// Ellipsis is appended to text that Truncate shortened.
const Ellipsis = "…"

// Counter counts text in one kind of unit and can cut text to a number of them.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in text.
	Count(text string) int

	// Truncate returns text cut to at most max units followed by Ellipsis.
	// Text within the limit, or a max below 1, returns text unchanged.
	Truncate(text string, max int) string

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Words counts whitespace-separated words (default)
	Words CountingMethod = iota
	// Characters counts Unicode code points
	Characters
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseCountingMethod maps a flag or env value onto a CountingMethod.
func ParseCountingMethod(s string) (CountingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "words", "word":
		return Words, nil
	case "characters", "chars", "char":
		return Characters, nil
	case "tokens", "token":
		return Tokens, nil
	default:
		return Words, fmt.Errorf("unknown counting method %q (want words, characters or tokens)", s)
	}
}

// NewCounter returns the Counter for method. Only the token counter can fail,
// when its encoding cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter()
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewWordCounter(), nil
	}
}

// finish trims trailing spaces and punctuation left by a cut and adds Ellipsis.
func finish(cut string) string {
	return strings.TrimRight(cut, " \t\n,;:-") + Ellipsis
}
