package recommend

import (
	"errors"
	"fmt"

	"github.com/chriscorrea/kindred/internal/tfidf"
)

// Construction-time failures, re-exported so callers need not import tfidf.
var (
	ErrEmptyCatalog         = tfidf.ErrEmptyCatalog
	ErrDegenerateVocabulary = tfidf.ErrDegenerateVocabulary
)

// InvalidRequestError reports a caller-correctable problem with a single request.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// IsInvalidRequest checks if an error is an InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var target *InvalidRequestError
	return errors.As(err, &target)
}
