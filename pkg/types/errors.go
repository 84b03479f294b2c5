package types

import "errors"

// Model construction errors. Construction is all-or-nothing: no partial
// Model is ever returned alongside one of these.
var (
	ErrMalformedModel = errors.New("malformed model")
)

// Evaluation errors. Each is fatal for the single sequence being evaluated
// and is isolated at the batch level.
var (
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnknownState     = errors.New("unknown state")
	ErrEmptySequence    = errors.New("empty observation sequence")
	ErrSequenceTooLarge = errors.New("sequence too large")
)

// Config validation errors.
var (
	ErrToleranceInvalid = errors.New("tolerance must be positive")
	ErrWorkersInvalid   = errors.New("workers must not be negative")
	ErrMaxCellsInvalid  = errors.New("max cells must not be negative")
)

// Catalog lifecycle errors.
var (
	ErrCatalogClosed  = errors.New("catalog is closed")
	ErrAlreadyOpen    = errors.New("catalog is already open")
	ErrModelNotFound  = errors.New("model not found")
	ErrDuplicateModel = errors.New("model name already exists")
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)
