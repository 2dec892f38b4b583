package goconflict

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/modules"
	"github.com/albertocavalcante/go-conflict/outcome"
	"github.com/albertocavalcante/go-conflict/version"
)

// Resolution is the result of driving a scenario to completion.
type Resolution struct {
	Outcome *outcome.Outcome

	// Modules maps every declared module to the component it resolved to.
	Modules map[string]string

	// Evicted lists the components that lost a module or capability conflict,
	// in the order they were evicted.
	Evicted []string
}

// Driver plays the graph builder's part for a scenario: it registers what the
// scenario declares, drains the conflict queues and re-registers modules whose
// resolution restarted.
type Driver struct {
	opts []Option
}

// NewDriver creates a driver. opts are applied after the options declared by
// each scenario, so they take precedence.
func NewDriver(opts ...Option) *Driver {
	return &Driver{opts: opts}
}

// Run resolves sc. Module conflicts are resolved before capability conflicts,
// since evicting a module can settle a capability conflict.
//
// When the session ends with version conflicts in fail-on-version-conflict
// mode, the resolution is returned together with the error.
func (d *Driver) Run(ctx context.Context, sc *Scenario) (*Resolution, error) {
	session, err := NewSession(append(sc.Options(), d.opts...)...)
	if err != nil {
		return nil, err
	}

	g := newGraph(session, sc)
	for _, m := range g.order {
		if err := g.register(m); err != nil {
			return nil, err
		}
	}
	for _, decl := range sc.Capabilities {
		g.registerCapability(decl)
	}

	for session.HasConflicts() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if session.HasModuleConflicts() {
			if err := g.resolveModule(); err != nil {
				return nil, err
			}
			continue
		}
		if err := session.ResolveNextCapability(g.applyCapability); err != nil {
			return nil, err
		}
	}

	return g.resolution(), session.Finish()
}

// node is a component in the driven graph.
type node struct {
	*modules.Component
	rejected     bool
	unselectable bool
}

func (n *node) IsCandidateForConflictResolution() bool {
	return !n.rejected && !n.unselectable
}

type graph struct {
	session    *Session
	order      []coord.ModuleID
	decls      map[coord.ModuleID][]ModuleDecl
	nodes      map[coord.ComponentID]*node
	registered map[coord.ModuleID][]modules.Candidate
	selected   map[coord.ModuleID]coord.ComponentID
	evicted    []string
}

func newGraph(session *Session, sc *Scenario) *graph {
	g := &graph{
		session:    session,
		decls:      make(map[coord.ModuleID][]ModuleDecl),
		nodes:      make(map[coord.ComponentID]*node),
		registered: make(map[coord.ModuleID][]modules.Candidate),
		selected:   make(map[coord.ModuleID]coord.ComponentID),
	}
	for _, decl := range sc.Modules {
		if _, ok := g.decls[decl.Module]; !ok {
			g.order = append(g.order, decl.Module)
		}
		g.decls[decl.Module] = append(g.decls[decl.Module], decl)
	}
	return g
}

func (g *graph) node(id coord.ComponentID) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{Component: &modules.Component{Coord: id, Resolved: true}}
		g.nodes[id] = n
	}
	return n
}

// candidates builds the candidate list of module from its declarations. Range
// selectors are folded through the session's tracker so that each one is
// resolved against the narrowest range seen so far.
func (g *graph) candidates(module coord.ModuleID) ([]modules.Candidate, error) {
	var out []modules.Candidate
	add := func(v string, resolved bool, possible []string) {
		id := coord.ComponentID{Module: module, Version: v}
		n := g.node(id)
		n.Resolved = resolved
		if len(possible) > 0 {
			n.Possible = possible
		}
		if !lo.ContainsBy(out, func(c modules.Candidate) bool { return c.ID() == id }) {
			out = append(out, n)
		}
	}

	for _, decl := range g.decls[module] {
		if decl.Selector == nil {
			for _, v := range decl.Versions {
				add(v, decl.Resolved, nil)
			}
			continue
		}

		sel := g.session.Tracker().MaybeIntersect(module.Group, module.Name, decl.Selector)
		matches := lo.Filter(decl.Possible, func(v string, _ int) bool { return sel.Accept(v) })
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: module %s: %s matches none of %v (line %d)",
				ErrNoMatchingVersion, module, sel, decl.Possible, decl.Line)
		}
		version.SortDescending(matches)
		add(matches[0], decl.Resolved, matches)
	}
	return out, nil
}

func (g *graph) register(module coord.ModuleID) error {
	cands, err := g.candidates(module)
	if err != nil {
		return err
	}
	g.registered[module] = cands
	g.session.RegisterModule(module, cands)
	return nil
}

func (g *graph) registerCapability(decl CapabilityDecl) {
	n := g.node(decl.Component)
	if !decl.Selectable {
		n.unselectable = true
	}
	implicit := lo.Map(decl.Implicit, func(id coord.ComponentID, _ int) capabilities.Candidate {
		return g.node(id)
	})
	g.session.RegisterCapability(n, decl.Capability, implicit)
}

func (g *graph) resolveModule() error {
	var restart []coord.ModuleID
	err := g.session.ResolveNextModule(func(res modules.Result) {
		if res.IsRestart() {
			restart = res.Participants
			return
		}
		winner := res.Selected.ID()
		for _, m := range res.Participants {
			g.selected[m] = winner
			for _, c := range g.registered[m] {
				g.reject(c.ID(), winner)
			}
		}
		for _, c := range res.Candidates {
			g.reject(c.ID(), winner)
		}
	})
	if err != nil {
		return err
	}

	for _, m := range restart {
		if err := g.register(m); err != nil {
			return err
		}
	}
	return nil
}

func (g *graph) reject(id, winner coord.ComponentID) {
	if id == winner {
		return
	}
	if n := g.node(id); !n.rejected {
		n.rejected = true
		g.evicted = append(g.evicted, id.String())
	}
}

func (g *graph) applyCapability(res capabilities.Result) {
	winner := res.Selected.ID()
	for _, c := range res.Evicted {
		g.reject(c.ID(), winner)
	}
}

func (g *graph) resolution() *Resolution {
	res := &Resolution{
		Outcome: g.session.Outcome(),
		Modules: make(map[string]string, len(g.order)),
		Evicted: g.evicted,
	}
	for _, m := range g.order {
		if id, ok := g.selected[m]; ok {
			res.Modules[m.String()] = id.String()
			continue
		}
		if cands := g.registered[m]; len(cands) > 0 {
			res.Modules[m.String()] = cands[0].ID().String()
		}
	}
	return res
}
