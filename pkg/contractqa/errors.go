package contractqa

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContract is returned when the requesting user has no stored contract.
	ErrNoContract = errors.New("no contract found")

	// ErrEmptyCorpus is returned when segmentation yields zero text units.
	ErrEmptyCorpus = errors.New("contract contains no usable text")

	ErrExtraction         = errors.New("contract text extraction failed")
	ErrEncoderUnavailable = errors.New("embedding encoder unavailable")
	ErrValidation         = errors.New("invalid question")

	// ErrDimensionMismatch means two vectors came from different models.
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
)

// ExtractionError wraps a failure to open or parse the stored document.
type ExtractionError struct {
	DocumentID string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract contract %s: %v", e.DocumentID, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtraction, e.Err} }

// EncoderError wraps a failure of the embedding model.
type EncoderError struct {
	Model string
	Op    string // "corpus" or "query"
	Err   error
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("encode %s with %s: %v", e.Op, e.Model, e.Err)
}

func (e *EncoderError) Unwrap() []error { return []error{ErrEncoderUnavailable, e.Err} }

// ValidationError describes a rejected question.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid question: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }
