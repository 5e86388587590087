package counter

import (
	"unicode/utf8"
)

// CharCounter counts characters as UTF-8 runes, not bytes.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (cc *CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate keeps the first max runes. The ellipsis is not counted.
func (cc *CharCounter) Truncate(text string, max int) string {
	if max < 1 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return finish(string(runes[:max]))
}

// Name returns the name of this counting method for logging and debugging.
func (cc *CharCounter) Name() string {
	return "characters"
}
