// Package modules resolves module-level conflicts: several versions of one
// module, or several modules linked by replacement rules, of which exactly
// one component must win.
package modules

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/ranges"
	"github.com/albertocavalcante/go-conflict/version"
)

// DefaultMaxRestarts bounds how often a single module may request a restart
// within one session.
const DefaultMaxRestarts = 32

// Candidate is one component under consideration for a module. Candidates
// are owned by the graph builder and never mutated here.
type Candidate interface {
	ID() coord.ComponentID
	Version() string
	// IsResolved reports whether the candidate's metadata is available.
	IsResolved() bool
}

// VersionedCandidate is a candidate that was selected from a dynamic
// selector and knows every version the selector could have matched.
type VersionedCandidate interface {
	Candidate
	// PossibleVersions returns the matching versions, preferred first.
	PossibleVersions() []string
}

type (
	// Details is the mutable view module resolvers act on.
	Details = conflict.Details[coord.ModuleID, Candidate]
	// Resolver is a module conflict resolution strategy.
	Resolver = conflict.Resolver[coord.ModuleID, Candidate]
	// ResolverFunc adapts a function to Resolver.
	ResolverFunc = conflict.ResolverFunc[coord.ModuleID, Candidate]
)

// Config configures a Handler.
type Config struct {
	// Replacements is consulted before every registration. Optional.
	Replacements Replacements

	// Tracker holds range intersection state. A fresh tracker is created
	// when nil.
	Tracker *ranges.Tracker

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger

	// MaxRestarts bounds restarts per module. Zero means DefaultMaxRestarts.
	MaxRestarts int

	// Compare orders versions. Defaults to version.Compare and must be a
	// total order.
	Compare func(a, b string) int

	// SkipBuiltins leaves the resolver chain empty so callers supply every
	// resolver themselves.
	SkipBuiltins bool
}

// Result is handed to the ResolveNext action.
type Result struct {
	// Module is the module whose candidates were authoritative.
	Module coord.ModuleID

	// Outcome is conflict.Selected or conflict.Restarted.
	Outcome      conflict.State
	Selected     Candidate
	Participants []coord.ModuleID
	Candidates   []Candidate
	DecidedBy    string
}

// IsRestart reports whether the graph builder must re-register the
// participants before resolution continues.
func (r Result) IsRestart() bool {
	return r.Outcome == conflict.Restarted
}

// WithParticipatingModules calls fn for each participating module.
func (r Result) WithParticipatingModules(fn func(coord.ModuleID)) {
	for _, m := range r.Participants {
		fn(m)
	}
}

// Handler detects and resolves module conflicts for one session.
//
// A Handler is not safe for concurrent use.
type Handler struct {
	registry     *conflict.Registry[coord.ModuleID, Candidate]
	chain        conflict.Chain[coord.ModuleID, Candidate]
	replacements Replacements
	tracker      *ranges.Tracker
	logger       *slog.Logger
	compare      func(a, b string) int
	maxRestarts  int
	restarts     map[coord.ModuleID]int
}

// NewHandler creates a handler. Unless cfg.SkipBuiltins is set, the chain is
// seeded with LatestResolver, IntersectionResolver and RangeRestartResolver,
// consulted in the reverse of that order.
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		registry:     conflict.NewRegistry[coord.ModuleID, Candidate](),
		replacements: cfg.Replacements,
		tracker:      cfg.Tracker,
		logger:       cfg.Logger,
		compare:      cfg.Compare,
		maxRestarts:  cfg.MaxRestarts,
		restarts:     make(map[coord.ModuleID]int),
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if h.tracker == nil {
		h.tracker = ranges.NewTracker(h.logger)
	}
	if h.compare == nil {
		h.compare = version.Compare
	}
	if h.maxRestarts <= 0 {
		h.maxRestarts = DefaultMaxRestarts
	}

	if !cfg.SkipBuiltins {
		h.chain.Register(&LatestResolver{Compare: h.compare})
		h.chain.Register(&IntersectionResolver{})
		h.chain.Register(NewRangeRestartResolver(h.tracker))
	}
	return h
}

// Tracker returns the range tracker shared with the restart resolver.
func (h *Handler) Tracker() *ranges.Tracker {
	return h.tracker
}

// RegisterResolver adds r ahead of every resolver registered before it.
func (h *Handler) RegisterResolver(r Resolver) {
	h.chain.Register(r)
}

// RegisterModule records the candidates discovered for module. Conflicts are
// queued, never resolved here.
func (h *Handler) RegisterModule(module coord.ModuleID, candidates []Candidate) conflict.PotentialConflict[coord.ModuleID] {
	var replacedBy *coord.ModuleID
	if h.replacements != nil {
		if to, ok := h.replacements.ReplacedBy(module); ok && to != module {
			replacedBy = &to
		}
	}

	g := h.registry.Register(module, candidates, replacedBy)
	pc := conflict.FromGroup(g)
	if pc.ConflictExists() {
		h.logger.Debug("module conflict detected",
			"module", module.String(),
			"participants", len(g.Participants()),
			"candidates", len(g.Candidates()))
	}
	return pc
}

// HasConflicts reports whether any module conflict is pending.
func (h *Handler) HasConflicts() bool {
	return h.registry.HasConflicts()
}

// Pending returns the number of queued conflicts.
func (h *Handler) Pending() int {
	return h.registry.Len()
}

// ResolveNext pops the oldest pending conflict, runs the resolver chain on it
// and passes the outcome to action. It is a no-op when nothing is pending.
//
// An error wrapping conflict.ErrNoDecision is returned if every resolver
// declined, conflict.ErrRestartLimit if a module restarted too often, and
// conflict.ErrUnresolvable if a resolver failed the conflict.
func (h *Handler) ResolveNext(action func(Result)) error {
	g := h.registry.Pop()
	if g == nil {
		return nil
	}

	d := conflict.NewDetails(g.Participants(), g.Candidates())
	if err := h.chain.Resolve(d); err != nil {
		return fmt.Errorf("resolving module conflict %s: %w", g.Target(), err)
	}

	res := Result{
		Module:       g.Target(),
		Outcome:      d.State(),
		Participants: d.Participants(),
		Candidates:   d.Candidates(),
		DecidedBy:    d.DecidedBy(),
	}

	switch d.State() {
	case conflict.Failed:
		return fmt.Errorf("%w: module %s (decided by %s): %w",
			conflict.ErrUnresolvable, g.Target(), d.DecidedBy(), d.Err())

	case conflict.Restarted:
		for _, m := range res.Participants {
			h.restarts[m]++
			if h.restarts[m] > h.maxRestarts {
				return fmt.Errorf("%w: module %s restarted %d times (limit %d)",
					conflict.ErrRestartLimit, m, h.restarts[m], h.maxRestarts)
			}
		}
		h.logger.Debug("module conflict restarted",
			"module", g.Target().String(), "by", d.DecidedBy())

	case conflict.Selected:
		res.Selected, _ = d.Selected()
		h.logger.Debug("module conflict resolved",
			"module", g.Target().String(),
			"selected", res.Selected.ID().String(),
			"by", d.DecidedBy(),
			"rejected", lo.Map(lo.Filter(res.Candidates, func(c Candidate, _ int) bool {
				return c.ID() != res.Selected.ID()
			}), func(c Candidate, _ int) string { return c.Version() }))
	}

	if action != nil {
		action(res)
	}
	return nil
}
