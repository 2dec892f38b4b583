// Package ranges tracks the running intersection of version ranges declared
// for each module during one resolution session.
//
// When a module is constrained by several overlapping ranges, resolving it
// against the narrowest one avoids selecting a version that a later range
// rules out. The [Tracker] keeps, per module, the intersection of every range
// seen so far and bumps a generation counter whenever that intersection
// narrows, so conflict resolvers can tell whether a restart would change
// anything.
//
// Disjoint ranges are deliberately not merged: the incoming selector is
// returned unchanged and ordinary conflict resolution surfaces the
// incompatibility with its usual diagnostics.
package ranges

import (
	"log/slog"

	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

type state struct {
	merged      version.RangeSelector
	intersected bool
}

// Tracker holds range intersection state for one session. It survives
// restarts within the session so that repeated restarts converge.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	ranges     map[coord.ModuleID]*state
	generation int
	logger     *slog.Logger
}

// NewTracker creates an empty tracker. A nil logger disables logging.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		ranges: make(map[coord.ModuleID]*state),
		logger: logger,
	}
}

// MaybeIntersect folds sel into the stored range for group:name and returns
// the selector the module should be resolved against.
//
// Only range selectors participate; any other selector is returned unchanged.
func (t *Tracker) MaybeIntersect(group, name string, sel version.Selector) version.Selector {
	incoming, ok := sel.(version.RangeSelector)
	if !ok {
		return sel
	}

	id := coord.ModuleID{Group: group, Name: name}
	st, seen := t.ranges[id]
	if !seen {
		t.ranges[id] = &state{merged: incoming}
		return incoming
	}

	merged, ok := st.merged.Intersect(incoming)
	if !ok {
		t.logger.Debug("disjoint version ranges, deferring to conflict resolution",
			"module", id.String(), "stored", st.merged.String(), "incoming", incoming.String())
		return sel
	}

	st.intersected = true
	if merged.Equal(st.merged) {
		return st.merged
	}

	st.merged = merged
	t.generation++
	t.logger.Debug("narrowed version range",
		"module", id.String(), "range", merged.String(), "generation", t.generation)
	return merged
}

// HasIntersectingRanges reports whether more than one overlapping range has
// been merged for group:name.
func (t *Tracker) HasIntersectingRanges(group, name string) bool {
	st, ok := t.ranges[coord.ModuleID{Group: group, Name: name}]
	return ok && st.intersected
}

// Range returns the stored range for group:name.
func (t *Tracker) Range(group, name string) (version.RangeSelector, bool) {
	st, ok := t.ranges[coord.ModuleID{Group: group, Name: name}]
	if !ok {
		return version.RangeSelector{}, false
	}
	return st.merged, true
}

// Generation returns the number of times any stored range has narrowed.
func (t *Tracker) Generation() int {
	return t.generation
}
