// Package capabilities resolves capability conflicts: several components
// declaring the same capability identity, of which one must be selected and
// the others evicted from the graph.
package capabilities

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
)

// Candidate is one component that may provide a capability.
type Candidate interface {
	ID() coord.ComponentID
	// IsCandidateForConflictResolution reports whether the component is still
	// selectable, i.e. was not evicted by module conflict resolution.
	IsCandidateForConflictResolution() bool
}

// Resolver is a capability conflict resolution strategy. It may evict any
// number of candidates and select at most one.
type Resolver interface {
	Resolve(d *Details)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(d *Details)

func (f ResolverFunc) Resolve(d *Details) { f(d) }

type provider struct {
	candidate  Candidate
	capability coord.Capability
}

// Config configures a Handler.
type Config struct {
	// AutoUpgrade registers UpgradeResolver first, so older capability
	// versions are evicted before any selecting resolver runs.
	AutoUpgrade bool

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Result is handed to the ResolveNextConflict action.
type Result struct {
	Capability coord.CapabilityID
	Selected   Candidate
	Evicted    []Candidate
	DecidedBy  string
}

// Handler detects and resolves capability conflicts for one session.
//
// A Handler is not safe for concurrent use.
type Handler struct {
	registry  *conflict.Registry[coord.CapabilityID, *provider]
	providers map[coord.CapabilityID][]*provider
	resolvers []Resolver
	logger    *slog.Logger
}

// NewHandler creates a handler.
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		registry:  conflict.NewRegistry[coord.CapabilityID, *provider](),
		providers: make(map[coord.CapabilityID][]*provider),
		logger:    cfg.Logger,
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.AutoUpgrade {
		h.RegisterResolver(&UpgradeResolver{})
	}
	return h
}

// RegisterResolver appends r to the chain. Capability resolvers run in
// registration order, so evicting resolvers can narrow the candidates before
// a selecting one runs.
func (h *Handler) RegisterResolver(r Resolver) {
	if r == nil {
		panic("capabilities: RegisterResolver called with nil resolver")
	}
	h.resolvers = append(h.resolvers, r)
}

// RegisterCandidate records that candidate provides capability. Each of
// implicitProviders is recorded as providing the same capability at its own
// component version. A conflict exists once two or more selectable
// components provide the capability identity.
func (h *Handler) RegisterCandidate(candidate Candidate, capability coord.Capability, implicitProviders []Candidate) conflict.PotentialConflict[coord.CapabilityID] {
	id := capability.ID()
	h.add(id, candidate, capability)
	for _, p := range implicitProviders {
		h.add(id, p, coord.Capability{Group: capability.Group, Name: capability.Name, Version: p.ID().Version})
	}

	g := h.registry.Register(id, h.selectable(id), nil)
	pc := conflict.FromGroup(g)
	if pc.ConflictExists() {
		h.logger.Debug("capability conflict detected",
			"capability", id.String(), "providers", len(g.Candidates()))
	}
	return pc
}

func (h *Handler) add(id coord.CapabilityID, c Candidate, capability coord.Capability) {
	for _, p := range h.providers[id] {
		if p.candidate.ID() == c.ID() {
			p.candidate, p.capability = c, capability
			return
		}
	}
	h.providers[id] = append(h.providers[id], &provider{candidate: c, capability: capability})
}

func (h *Handler) selectable(id coord.CapabilityID) []*provider {
	return lo.Filter(h.providers[id], func(p *provider, _ int) bool {
		return p.candidate.IsCandidateForConflictResolution()
	})
}

// HasConflicts reports whether any capability conflict is pending.
func (h *Handler) HasConflicts() bool {
	return h.registry.HasConflicts()
}

// Pending returns the number of queued conflicts.
func (h *Handler) Pending() int {
	return h.registry.Len()
}

// ResolveNextConflict pops the oldest pending conflict and resolves it.
//
// Selectability is re-checked at this point: a conflict whose selectable set
// has shrunk to one provider selects it without consulting resolvers, and one
// that has shrunk to none is dropped. If resolvers leave exactly one provider
// standing it is selected; otherwise a *ConflictError is returned.
func (h *Handler) ResolveNextConflict(action func(Result)) error {
	g := h.registry.Pop()
	if g == nil {
		return nil
	}
	id := g.Target()
	live := h.selectable(id)

	switch len(live) {
	case 0:
		h.logger.Debug("capability conflict dropped, no selectable provider", "capability", id.String())
		return nil
	case 1:
		h.report(action, Result{Capability: id, Selected: live[0].candidate, DecidedBy: "only selectable provider"})
		return nil
	}

	d := newDetails(id, live)
	for _, r := range h.resolvers {
		d.running = conflict.NameOf(r)
		r.Resolve(d)
		if d.IsResolved() {
			break
		}
	}
	d.running = ""

	if !d.IsResolved() {
		if remaining := d.Candidates(); len(remaining) == 1 {
			d.running = "last-candidate"
			remaining[0].Select()
			d.running = ""
		}
	}

	selected, ok := d.Selected()
	if !ok {
		return newConflictError(id, live)
	}
	h.report(action, Result{
		Capability: id,
		Selected:   selected,
		Evicted:    d.Evicted(),
		DecidedBy:  d.DecidedBy(),
	})
	return nil
}

func (h *Handler) report(action func(Result), res Result) {
	h.logger.Debug("capability conflict resolved",
		"capability", res.Capability.String(),
		"selected", res.Selected.ID().String(),
		"evicted", len(res.Evicted),
		"by", res.DecidedBy)
	if action != nil {
		action(res)
	}
}
