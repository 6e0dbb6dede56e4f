// Package errors provides standardized error types and helpers for the
// doc-flow-reorder codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core operations. Every failure surfaced by the
// core wraps exactly one of these, so callers can dispatch with errors.Is.
var (
	// ErrInvalidPackage indicates the archive is unreadable or lacks the
	// mandatory main document part.
	ErrInvalidPackage = errors.New("invalid package")
	// ErrNoParagraphsFound indicates the split succeeded structurally but
	// yielded zero surviving paragraphs after empty-text filtering.
	ErrNoParagraphsFound = errors.New("no paragraphs found")
	// ErrInvalidPermutation indicates a reorder was given a sequence that is
	// not a permutation of the session's paragraph IDs.
	ErrInvalidPermutation = errors.New("invalid permutation")
	// ErrUnknownID indicates an operation referenced a paragraph ID that is
	// not present in the session.
	ErrUnknownID = errors.New("unknown paragraph id")
	// ErrNoSession indicates an export was attempted without a successfully
	// loaded (and not yet consumed) session.
	ErrNoSession = errors.New("no session")
	// ErrPackagingFailure indicates the output archive could not be written.
	ErrPackagingFailure = errors.New("packaging failure")
)

// PackageError represents a package read/write failure with context.
type PackageError struct {
	Op   string // Operation being performed (e.g., "open", "write")
	Part string // Part name involved, if any
	Err  error  // Underlying error, if any
}

func (e *PackageError) Error() string {
	if e.Part != "" {
		if e.Err != nil {
			return fmt.Sprintf("package %s: part %s: %v", e.Op, e.Part, e.Err)
		}
		return fmt.Sprintf("package %s: part %s", e.Op, e.Part)
	}
	return fmt.Sprintf("package %s: %v", e.Op, e.Err)
}

// Unwrap always reports ErrInvalidPackage so errors.Is dispatch works even
// when an underlying cause is attached; the cause stays in the message.
func (e *PackageError) Unwrap() error {
	return ErrInvalidPackage
}

// PackagingError represents a failure to write the output archive.
type PackagingError struct {
	Op   string // Operation being performed (e.g., "write", "compress")
	Part string // Part name involved, if any
	Err  error  // Underlying error
}

func (e *PackagingError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("packaging %s: part %s: %v", e.Op, e.Part, e.Err)
	}
	return fmt.Sprintf("packaging %s: %v", e.Op, e.Err)
}

func (e *PackagingError) Unwrap() error {
	return ErrPackagingFailure
}

// PermutationError represents a reorder request that is not a permutation
// of the current paragraph ID set.
type PermutationError struct {
	ID     string // Offending ID, if a single ID is at fault
	Reason string // Human-readable reason ("missing id", "duplicate id", ...)
}

func (e *PermutationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid permutation: %s: %s", e.Reason, e.ID)
	}
	return fmt.Sprintf("invalid permutation: %s", e.Reason)
}

func (e *PermutationError) Unwrap() error {
	return ErrInvalidPermutation
}

// UnknownIDError represents an operation referencing an absent paragraph ID.
type UnknownIDError struct {
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown paragraph id: %s", e.ID)
}

func (e *UnknownIDError) Unwrap() error {
	return ErrUnknownID
}

// SplitError represents a failure to partition document markup into
// header, paragraphs, and footer.
type SplitError struct {
	Strategy string // Strategy that was attempted ("structural", "boundary")
	Message  string // Error details
	Err      error  // Underlying error, if any
}

func (e *SplitError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Strategy != "" {
		return fmt.Sprintf("split (%s): %s", e.Strategy, msg)
	}
	return fmt.Sprintf("split: %s", msg)
}

func (e *SplitError) Unwrap() error {
	return ErrNoParagraphsFound
}

// Helper constructors for common errors

// NewPackage creates a PackageError.
func NewPackage(op, part string, err error) *PackageError {
	return &PackageError{Op: op, Part: part, Err: err}
}

// NewPackaging creates a PackagingError.
func NewPackaging(op, part string, err error) *PackagingError {
	return &PackagingError{Op: op, Part: part, Err: err}
}

// NewPermutation creates a PermutationError.
func NewPermutation(id, reason string) *PermutationError {
	return &PermutationError{ID: id, Reason: reason}
}

// NewUnknownID creates an UnknownIDError.
func NewUnknownID(id string) *UnknownIDError {
	return &UnknownIDError{ID: id}
}

// NewSplit creates a SplitError.
func NewSplit(strategy, message string, err error) *SplitError {
	return &SplitError{Strategy: strategy, Message: message, Err: err}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
