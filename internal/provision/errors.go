package provision

import "fmt"

// DirectoryError represents an invalid or unwritable project directory.
// It is fatal; nothing is installed after one.
type DirectoryError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DirectoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("directory error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("directory error for %s: %s", e.Path, e.Message)
}

func (e *DirectoryError) Unwrap() error {
	return e.Cause
}

// ToolError means the package manager itself is unavailable.
type ToolError struct {
	Message string
	Cause   error
}

func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tool error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tool error: %s", e.Message)
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// EnvError represents a virtual environment creation failure.
type EnvError struct {
	Message string
	Cause   error
}

func (e *EnvError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("environment error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("environment error: %s", e.Message)
}

func (e *EnvError) Unwrap() error {
	return e.Cause
}
