package advisory

import "fmt"

// APICallError represents an error from the advisory LLM call
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("advisory call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("advisory call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error parsing the advisory response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("advisory parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("advisory parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
