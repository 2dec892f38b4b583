// Package diagnostics collects the version conflicts of a session run in
// fail-on-version-conflict mode and renders them as one capped report.
package diagnostics

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

// MaxReported is the number of conflicts shown before the report is cut off.
const MaxReported = 10

// ErrVersionConflict is matched by every *VersionConflictError.
var ErrVersionConflict = errors.New("version conflict")

// Conflict is one module that resolved between several versions in one
// configuration.
type Conflict struct {
	Configuration string
	Module        coord.ModuleID
	// Versions holds the distinct competing versions, highest first.
	Versions []string
}

func (c Conflict) String() string {
	vs := c.Versions
	var between string
	switch len(vs) {
	case 0:
	case 1:
		between = vs[0]
	default:
		between = strings.Join(vs[:len(vs)-1], ", ") + " and " + vs[len(vs)-1]
	}
	return fmt.Sprintf("%s between versions %s (%s)", c.Module, between, c.Configuration)
}

type key struct {
	configuration string
	module        coord.ModuleID
}

// Collector accumulates conflicts across a whole session.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	entries map[key][]string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{entries: make(map[key][]string)}
}

// Record notes that module resolved between versions in configuration.
// Recording the same pair again merges the versions; a pair becomes a
// conflict once it has seen two distinct versions.
func (c *Collector) Record(configuration string, module coord.ModuleID, versions []string) {
	k := key{configuration: configuration, module: module}
	merged := lo.Uniq(append(c.entries[k], versions...))
	version.SortDescending(merged)
	c.entries[k] = merged
}

// Len returns the number of distinct (configuration, module) conflicts.
func (c *Collector) Len() int {
	return lo.CountBy(lo.Values(c.entries), func(vs []string) bool { return len(vs) > 1 })
}

// Conflicts returns every recorded conflict ordered by module, then
// configuration.
func (c *Collector) Conflicts() []Conflict {
	var out []Conflict
	for k, vs := range c.entries {
		if len(vs) > 1 {
			out = append(out, Conflict{Configuration: k.configuration, Module: k.module, Versions: slices.Clone(vs)})
		}
	}
	slices.SortFunc(out, func(a, b Conflict) int {
		if c := a.Module.Compare(b.Module); c != 0 {
			return c
		}
		return cmp.Compare(a.Configuration, b.Configuration)
	})
	return out
}

// Report renders the recorded conflicts, or "" when there are none.
func (c *Collector) Report() string {
	return report(c.Conflicts())
}

// Err returns a *VersionConflictError, or nil when nothing was recorded.
func (c *Collector) Err() error {
	if c.Len() == 0 {
		return nil
	}
	return &VersionConflictError{Conflicts: c.Conflicts()}
}

func report(conflicts []Conflict) string {
	if len(conflicts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Conflict(s) found for the following module(s):\n")
	for i, c := range conflicts {
		if i == MaxReported {
			b.WriteString("  ...and more\n")
			break
		}
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	first := conflicts[0]
	fmt.Fprintf(&b, "Run `conflicts explain --configuration %s --module %s` for more insight, "+
		"or disable failOnVersionConflict (--fail-on-version-conflict=false) to let the highest version win.",
		first.Configuration, first.Module)
	return b.String()
}

// VersionConflictError is returned by sessions in fail-on-version-conflict
// mode that saw at least one conflict.
type VersionConflictError struct {
	Conflicts []Conflict
}

func (e *VersionConflictError) Error() string {
	return report(e.Conflicts)
}

func (e *VersionConflictError) Unwrap() []error {
	return []error{ErrVersionConflict, conflict.ErrUnresolvable}
}
