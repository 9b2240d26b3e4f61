package reasoning

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputMissing means the response carried no delimited output span.
	ErrOutputMissing = errors.New("structured output delimiters not found in response")

	// ErrOutputMalformed means the delimited span failed to decode.
	ErrOutputMalformed = errors.New("structured output failed to decode")
)

// ExtractionError is a typed, non-fatal extraction failure. Raw always holds
// the full unparsed model text for support triage.
type ExtractionError struct {
	kind  error
	Raw   string
	Parse error
}

func newMissing(raw string) *ExtractionError {
	return &ExtractionError{kind: ErrOutputMissing, Raw: raw}
}

func newMalformed(raw string, parseErr error) *ExtractionError {
	return &ExtractionError{kind: ErrOutputMalformed, Raw: raw, Parse: parseErr}
}

func (e *ExtractionError) Error() string {
	if e.Parse != nil {
		return fmt.Sprintf("%v: %v", e.kind, e.Parse)
	}
	return e.kind.Error()
}

func (e *ExtractionError) Unwrap() error { return e.kind }
