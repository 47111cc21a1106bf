package models

// Mode selects the execution strategy of a comparison
type Mode string

const (
	// ModeSync walks both trees depth-first on the calling goroutine
	ModeSync Mode = "sync"
	// ModeAsync lists, recurses and compares content concurrently
	ModeAsync Mode = "async"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
