package outcome

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrNotFound is returned when a subject took part in no decision.
var ErrNotFound = errors.New("no decision involves subject")

// Selected returns the component that won module conflicts for module.
func (o *Outcome) Selected(module string) (string, bool) {
	c, ok := o.Modules[module]
	return c, ok
}

// Winner returns the component that won the capability conflict.
func (o *Outcome) Winner(capability string) (string, bool) {
	c, ok := o.Capabilities[capability]
	return c, ok
}

// DecisionsFor returns every decision involving subject, in order.
func (o *Outcome) DecisionsFor(subject string) []Decision {
	return lo.Filter(o.Decisions, func(d Decision, _ int) bool { return d.Involves(subject) })
}

// Explain describes how subject, a module or a capability, was decided.
func (o *Outcome) Explain(subject string) (*Explanation, error) {
	decisions := o.DecisionsFor(subject)
	if len(decisions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, subject)
	}

	last := decisions[len(decisions)-1]
	e := &Explanation{
		Subject:   subject,
		Kind:      last.Kind,
		Decisions: decisions,
	}
	if c, ok := o.Selected(subject); ok {
		e.Final = c
	} else if c, ok := o.Winner(subject); ok {
		e.Final = c
	}
	return e, nil
}

// Stats summarizes the outcome.
func (o *Outcome) Stats() Stats {
	s := Stats{Decisions: len(o.Decisions)}
	for _, d := range o.Decisions {
		switch {
		case d.Restarted:
			s.Restarts++
		case d.Kind == KindModule:
			s.ModuleConflicts++
		case d.Kind == KindCapability:
			s.CapabilityConflicts++
		}
		s.Evicted += lo.CountBy(d.Candidates, func(c Candidate) bool { return c.Evicted })
	}
	return s
}
