package counter

import (
	"strings"
)

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of words in text, splitting on any Unicode whitespace.
func (wc *WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Truncate keeps the first max words, joined by single spaces.
func (wc *WordCounter) Truncate(text string, max int) string {
	words := strings.Fields(text)
	if max < 1 || len(words) <= max {
		return text
	}
	return finish(strings.Join(words[:max], " "))
}

// Name returns the name of this counting method for logging and debugging.
func (wc *WordCounter) Name() string {
	return "words"
}
