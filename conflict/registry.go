package conflict

import (
	"fmt"
	"slices"
)

// Group is a set of participating keys that must be resolved together, and
// the candidate set of the group's authoritative key.
type Group[K comparable, C any] struct {
	participants []K
	target       K
	candidates   []C

	// replaced is true once the target was fixed by a replacement link.
	// Such a target is never demoted by a later self-conflict.
	replaced bool
	seq      int
}

// Participants returns the participating keys in the order they joined.
func (g *Group[K, C]) Participants() []K {
	return slices.Clone(g.participants)
}

// Target returns the key whose candidates are authoritative for the group.
func (g *Group[K, C]) Target() K {
	return g.target
}

// Candidates returns the authoritative candidate set.
func (g *Group[K, C]) Candidates() []C {
	return slices.Clone(g.candidates)
}

// Has reports whether key participates in the group.
func (g *Group[K, C]) Has(key K) bool {
	return slices.Contains(g.participants, key)
}

func (g *Group[K, C]) String() string {
	return fmt.Sprintf("conflict%v -> %v (%d candidates)", g.participants, g.target, len(g.candidates))
}

func (g *Group[K, C]) addParticipants(keys ...K) {
	for _, k := range keys {
		if !slices.Contains(g.participants, k) {
			g.participants = append(g.participants, k)
		}
	}
}

// Registry tracks candidates per key and groups colliding keys into conflicts.
//
// A Registry is not safe for concurrent use; each resolution session owns one.
type Registry[K comparable, C any] struct {
	// elements holds the latest candidate set registered for every key.
	elements map[K][]C

	// sources maps a replacement target to the keys it replaces,
	// in registration order.
	sources map[K][]K

	groups        []*Group[K, C]
	byParticipant map[K]*Group[K, C]
	nextSeq       int
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable, C any]() *Registry[K, C] {
	return &Registry[K, C]{
		elements:      make(map[K][]C),
		sources:       make(map[K][]K),
		byParticipant: make(map[K]*Group[K, C]),
	}
}

// Register records the candidates of key and returns the conflict group key
// now belongs to, or nil when key is not in conflict.
//
// replacedBy, when non-nil, declares that key is replaced by another key: if
// both are discovered they form a single conflict whose candidates are those of
// the replacement target. Discovery order does not matter.
//
// Registering the same key again refreshes its candidate set.
func (r *Registry[K, C]) Register(key K, candidates []C, replacedBy *K) *Group[K, C] {
	var zero K
	if key == zero {
		panic("conflict: Register called with zero key")
	}

	r.elements[key] = slices.Clone(candidates)
	if g := r.byParticipant[key]; g != nil && g.target == key {
		g.candidates = slices.Clone(candidates)
	}

	if replacedBy != nil {
		target := *replacedBy
		if target == zero {
			panic("conflict: Register called with zero replacement target")
		}
		if !slices.Contains(r.sources[target], key) {
			r.sources[target] = append(r.sources[target], key)
		}
		if _, seen := r.elements[target]; seen && target != key {
			// The replacement was discovered first.
			return r.link([]K{key}, target, true)
		}
	}

	if sources := r.sources[key]; len(sources) > 0 {
		// key replaces modules that were discovered earlier.
		return r.link(sources, key, true)
	}

	if len(candidates) > 1 {
		return r.link(nil, key, false)
	}

	return r.byParticipant[key]
}

// link merges sources and target into a single group, folding every existing
// group that shares a participant into the oldest of them.
func (r *Registry[K, C]) link(sources []K, target K, viaReplacement bool) *Group[K, C] {
	participants := append(slices.Clone(sources), target)

	var touched []*Group[K, C]
	for _, p := range participants {
		if g := r.byParticipant[p]; g != nil && !slices.Contains(touched, g) {
			touched = append(touched, g)
		}
	}

	if len(touched) == 0 {
		g := &Group[K, C]{
			target:     target,
			candidates: slices.Clone(r.elements[target]),
			replaced:   viaReplacement,
			seq:        r.nextSeq,
		}
		r.nextSeq++
		g.addParticipants(participants...)
		r.groups = append(r.groups, g)
		r.index(g)
		return g
	}

	slices.SortFunc(touched, func(a, b *Group[K, C]) int { return a.seq - b.seq })
	keep := touched[0]
	for _, other := range touched[1:] {
		keep.addParticipants(other.participants...)
		if other.replaced && !keep.replaced {
			keep.target, keep.replaced = other.target, true
		}
		r.groups = slices.DeleteFunc(r.groups, func(g *Group[K, C]) bool { return g == other })
	}
	keep.addParticipants(participants...)

	if viaReplacement || !keep.replaced {
		keep.target = target
		keep.replaced = keep.replaced || viaReplacement
	}
	keep.candidates = slices.Clone(r.elements[keep.target])
	r.index(keep)
	return keep
}

func (r *Registry[K, C]) index(g *Group[K, C]) {
	for _, p := range g.participants {
		r.byParticipant[p] = g
	}
}

// Pop removes and returns the oldest pending group, or nil if there is none.
func (r *Registry[K, C]) Pop() *Group[K, C] {
	if len(r.groups) == 0 {
		return nil
	}
	g := r.groups[0]
	r.groups = r.groups[1:]
	for _, p := range g.participants {
		if r.byParticipant[p] == g {
			delete(r.byParticipant, p)
		}
	}
	return g
}

// Len returns the number of pending groups.
func (r *Registry[K, C]) Len() int {
	return len(r.groups)
}

// HasConflicts reports whether any group is pending.
func (r *Registry[K, C]) HasConflicts() bool {
	return len(r.groups) > 0
}

// InConflict reports whether key participates in a pending group.
func (r *Registry[K, C]) InConflict(key K) bool {
	_, ok := r.byParticipant[key]
	return ok
}

// Groups returns the pending groups in first-detected order.
func (r *Registry[K, C]) Groups() []*Group[K, C] {
	return slices.Clone(r.groups)
}

// Candidates returns the latest candidate set registered for key.
func (r *Registry[K, C]) Candidates(key K) ([]C, bool) {
	c, ok := r.elements[key]
	return slices.Clone(c), ok
}
