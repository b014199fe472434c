package types

import "errors"

// Scoring and lookup errors. They are local to one pairwise computation.
var (
	// ErrEmptyOperand indicates a score was requested for an empty phoneme, feature or character set.
	ErrEmptyOperand = errors.New("empty operand")

	// ErrMissingLanguage indicates the query or target code is absent from the dataset.
	ErrMissingLanguage = errors.New("missing language")

	// ErrUnmappableCode indicates a code cannot be translated across all code systems.
	ErrUnmappableCode = errors.New("unmappable language code")

	// ErrNoInventory indicates a language has no observed phoneme source.
	ErrNoInventory = errors.New("no phoneme inventory")

	// ErrLengthMismatch indicates two feature vectors of different length.
	ErrLengthMismatch = errors.New("feature vectors differ in length")

	// ErrInvalidWeight indicates a negative aggregate weight.
	ErrInvalidWeight = errors.New("weights must be non-negative")

	// ErrUnsupportedBackend indicates an unknown cache backend type.
	ErrUnsupportedBackend = errors.New("unsupported backend type")
)
