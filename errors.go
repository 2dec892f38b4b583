package goconflict

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/diagnostics"
)

// Sentinel errors for session failures.
var (
	// ErrInternal indicates a misconfigured or misdriven engine, such as a
	// resolver chain with no default resolver.
	ErrInternal = conflict.ErrInternal

	// ErrUnresolvable indicates a conflict that no resolver could settle.
	ErrUnresolvable = conflict.ErrUnresolvable

	// ErrVersionConflict indicates that fail-on-version-conflict mode saw at
	// least one conflict.
	ErrVersionConflict = diagnostics.ErrVersionConflict

	// ErrInvalidScenario indicates a malformed scenario file.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrInvalidConfig indicates a malformed configuration file or option.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoMatchingVersion indicates a declared range matched none of the
	// module's available versions.
	ErrNoMatchingVersion = errors.New("no matching version")
)

// Scenario error codes.
const (
	ErrCodeParse          = "parse"
	ErrCodeUnknownCall    = "unknown_call"
	ErrCodeUnknownAttr    = "unknown_attr"
	ErrCodeMissingAttr    = "missing_attr"
	ErrCodeInvalidAttr    = "invalid_attr"
	ErrCodeDuplicateValue = "duplicate"
)

// ScenarioError reports a problem in a scenario file.
type ScenarioError struct {
	Code    string
	File    string
	Line    int
	Message string
}

func (e *ScenarioError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *ScenarioError) Unwrap() error {
	return ErrInvalidScenario
}
