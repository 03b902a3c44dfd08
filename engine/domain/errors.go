package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match with errors.Is; producers wrap the
// underlying cause as text so the sentinel stays matchable.
var (
	ErrIngest           = errors.New("malformed document")
	ErrStoreUnavailable = errors.New("knowledge store unavailable")
	ErrGeneration       = errors.New("response generation failed")
	ErrSynthesis        = errors.New("speech synthesis failed")
	ErrExport           = errors.New("transcript export failed")
	ErrEmptyMessage     = errors.New("message is empty")
)

// DocumentError reports which document and field failed ingest validation.
type DocumentError struct {
	DocID string
	Field string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: document %q: missing %s", ErrIngest, e.DocID, e.Field)
}

func (e *DocumentError) Unwrap() error { return ErrIngest }
