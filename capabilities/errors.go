package capabilities

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

// ConflictError reports a capability conflict that no resolver settled.
type ConflictError struct {
	Capability coord.CapabilityID
	// Providers maps each capability version to the components providing it,
	// both sorted.
	Providers map[string][]string
}

func newConflictError(id coord.CapabilityID, providers []*provider) *ConflictError {
	grouped := lo.GroupBy(providers, func(p *provider) string { return p.capability.Version })
	e := &ConflictError{Capability: id, Providers: make(map[string][]string, len(grouped))}
	for v, ps := range grouped {
		ids := lo.Uniq(lo.Map(ps, func(p *provider, _ int) string { return p.candidate.ID().String() }))
		slices.Sort(ids)
		e.Providers[v] = ids
	}
	return e
}

// Versions returns the conflicting capability versions in ascending order.
func (e *ConflictError) Versions() []string {
	versions := lo.Keys(e.Providers)
	version.Sort(versions)
	return versions
}

// Components returns every conflicting component, sorted.
func (e *ConflictError) Components() []string {
	all := lo.Uniq(lo.Flatten(lo.Values(e.Providers)))
	slices.Sort(all)
	return all
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "capability %s is provided by %d conflicting components:", e.Capability, len(e.Components()))
	for _, v := range e.Versions() {
		fmt.Fprintf(&b, "\n  - %s:%s provided by [%s]", e.Capability, v, strings.Join(e.Providers[v], ", "))
	}
	return b.String()
}

func (e *ConflictError) Unwrap() error { return conflict.ErrUnresolvable }
