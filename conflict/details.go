package conflict

import (
	"fmt"
	"slices"
)

// PotentialConflict is returned from registration: either no conflict, or the
// keys currently participating in a pending conflict.
type PotentialConflict[K comparable] struct {
	participants []K
}

// NoConflict returns a PotentialConflict reporting no conflict.
func NoConflict[K comparable]() PotentialConflict[K] {
	return PotentialConflict[K]{}
}

// Potential returns a PotentialConflict for the given participants.
func Potential[K comparable](participants ...K) PotentialConflict[K] {
	return PotentialConflict[K]{participants: slices.Clone(participants)}
}

// FromGroup converts a registry result into a PotentialConflict.
func FromGroup[K comparable, C any](g *Group[K, C]) PotentialConflict[K] {
	if g == nil {
		return NoConflict[K]()
	}
	return Potential(g.participants...)
}

// ConflictExists reports whether registration produced a conflict.
func (p PotentialConflict[K]) ConflictExists() bool {
	return len(p.participants) > 0
}

// Participants returns the participating keys.
func (p PotentialConflict[K]) Participants() []K {
	return slices.Clone(p.participants)
}

// WithParticipatingModules calls fn for each participant, in order.
func (p PotentialConflict[K]) WithParticipatingModules(fn func(K)) {
	for _, k := range p.participants {
		fn(k)
	}
}

// State is the lifecycle state of a Details value.
type State int

const (
	// Undecided is the initial state: no resolver has acted yet.
	Undecided State = iota
	// Selected means a candidate won.
	Selected
	// Failed means a resolver rejected the conflict with an error.
	Failed
	// Restarted means resolution must be retried after the graph is updated.
	Restarted
)

func (s State) String() string {
	switch s {
	case Undecided:
		return "undecided"
	case Selected:
		return "selected"
	case Failed:
		return "failed"
	case Restarted:
		return "restarted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Details is the mutable view a resolver acts on. The first of Select, Fail or
// Restart decides the outcome; later calls are ignored.
type Details[K comparable, C any] struct {
	participants []K
	candidates   []C

	state     State
	selected  C
	err       error
	decidedBy string

	// running is the name of the resolver currently being consulted.
	running string
}

// NewDetails creates an undecided view over the given conflict.
func NewDetails[K comparable, C any](participants []K, candidates []C) *Details[K, C] {
	return &Details[K, C]{
		participants: slices.Clone(participants),
		candidates:   slices.Clone(candidates),
	}
}

// Participants returns the keys taking part in the conflict.
func (d *Details[K, C]) Participants() []K {
	return slices.Clone(d.participants)
}

// Candidates returns the live candidate set.
func (d *Details[K, C]) Candidates() []C {
	return slices.Clone(d.candidates)
}

// Select records the winning candidate.
func (d *Details[K, C]) Select(c C) {
	if d.state != Undecided {
		return
	}
	d.state = Selected
	d.selected = c
	d.decidedBy = d.running
}

// Fail records that the conflict cannot be resolved.
func (d *Details[K, C]) Fail(err error) {
	if d.state != Undecided {
		return
	}
	if err == nil {
		err = ErrUnresolvable
	}
	d.state = Failed
	d.err = err
	d.decidedBy = d.running
}

// Restart records that resolution must be retried later.
func (d *Details[K, C]) Restart() {
	if d.state != Undecided {
		return
	}
	d.state = Restarted
	d.decidedBy = d.running
}

// State returns the current state.
func (d *Details[K, C]) State() State {
	return d.state
}

// IsDecided reports whether a resolver has acted.
func (d *Details[K, C]) IsDecided() bool {
	return d.state != Undecided
}

// Selected returns the selected candidate; ok is false unless State is Selected.
func (d *Details[K, C]) Selected() (c C, ok bool) {
	return d.selected, d.state == Selected
}

// Err returns the failure recorded by Fail.
func (d *Details[K, C]) Err() error {
	return d.err
}

// DecidedBy returns the name of the resolver that decided the outcome.
func (d *Details[K, C]) DecidedBy() string {
	return d.decidedBy
}
