package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches *NotFoundError.
	ErrNotFound = errors.New("coordinate not found")
	// ErrCycle matches *CycleError.
	ErrCycle = errors.New("cycle detected in conversion graph")
	// ErrDuplicateOutput matches *DuplicateOutputError.
	ErrDuplicateOutput = errors.New("duplicate output name in conversion graph")
)

// NotFoundError reports a coordinate that is neither present on the input
// object nor produced by any rule.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("coordinate '%s' does not exist in the input data and no rule has been provided to compute it", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CycleError reports a dependency loop. Path, when known, lists the names
// along the loop and ends with Name.
type CycleError struct {
	Name string
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("%s: '%s'", ErrCycle, e.Name)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// DuplicateOutputError reports an output name declared by two entries of a
// declarative graph.
type DuplicateOutputError struct {
	Name string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateOutput, e.Name)
}

func (e *DuplicateOutputError) Is(target error) bool { return target == ErrDuplicateOutput }
