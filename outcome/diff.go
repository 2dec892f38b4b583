package outcome

import (
	"cmp"
	"slices"

	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

// Change is a subject whose winner appeared or disappeared between outcomes.
type Change struct {
	// Subject is the module or capability.
	Subject string `json:"subject"`

	// Component is the winning component.
	Component string `json:"component"`
}

// Upgrade is a subject whose winner changed between outcomes.
type Upgrade struct {
	Subject string `json:"subject"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// Diff describes the differences between two outcomes.
//
// Diffing two outcomes of identical inputs is how determinism is checked:
//
//	a, _ := driver.Run(ctx, scenario)
//	b, _ := driver.Run(ctx, scenario)
//	if d := outcome.Compare(a.Outcome, b.Outcome); !d.IsEmpty() {
//	    // resolution is not reproducible
//	}
type Diff struct {
	// Added contains subjects decided only in the new outcome.
	Added []Change `json:"added,omitempty"`

	// Removed contains subjects decided only in the old outcome.
	Removed []Change `json:"removed,omitempty"`

	// Upgraded contains modules whose winning version went up.
	Upgraded []Upgrade `json:"upgraded,omitempty"`

	// Downgraded contains modules whose winning version went down.
	Downgraded []Upgrade `json:"downgraded,omitempty"`

	// Switched contains subjects now won by a different component at an
	// equal version, including every capability whose provider changed.
	Switched []Upgrade `json:"switched,omitempty"`
}

// IsEmpty returns true if there are no differences between the outcomes.
func (d *Diff) IsEmpty() bool {
	return d.TotalChanges() == 0
}

// TotalChanges returns the total number of changes.
func (d *Diff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Upgraded) + len(d.Downgraded) + len(d.Switched)
}

// Compare computes the difference between two outcomes. Nil is treated as
// empty. Results are sorted by subject.
func Compare(old, new *Outcome) *Diff {
	diff := &Diff{}
	if old == nil {
		old = &Outcome{}
	}
	if new == nil {
		new = &Outcome{}
	}

	diffWinners(diff, old.Modules, new.Modules, true)
	diffWinners(diff, old.Capabilities, new.Capabilities, false)

	bySubject := func(a, b Change) int { return cmp.Compare(a.Subject, b.Subject) }
	byUpgrade := func(a, b Upgrade) int { return cmp.Compare(a.Subject, b.Subject) }
	slices.SortFunc(diff.Added, bySubject)
	slices.SortFunc(diff.Removed, bySubject)
	slices.SortFunc(diff.Upgraded, byUpgrade)
	slices.SortFunc(diff.Downgraded, byUpgrade)
	slices.SortFunc(diff.Switched, byUpgrade)
	return diff
}

func diffWinners(diff *Diff, old, new map[string]string, byVersion bool) {
	for subject, now := range new {
		before, existed := old[subject]
		switch {
		case !existed:
			diff.Added = append(diff.Added, Change{Subject: subject, Component: now})
		case before == now:
		default:
			u := Upgrade{Subject: subject, Old: before, New: now}
			c := 0
			if byVersion {
				c = compareComponents(now, before)
			}
			switch {
			case c > 0:
				diff.Upgraded = append(diff.Upgraded, u)
			case c < 0:
				diff.Downgraded = append(diff.Downgraded, u)
			default:
				diff.Switched = append(diff.Switched, u)
			}
		}
	}
	for subject, before := range old {
		if _, ok := new[subject]; !ok {
			diff.Removed = append(diff.Removed, Change{Subject: subject, Component: before})
		}
	}
}

// compareComponents orders two component ids by version when they belong to
// the same module. Components of different modules compare equal.
func compareComponents(a, b string) int {
	ca, errA := coord.ParseComponentID(a)
	cb, errB := coord.ParseComponentID(b)
	if errA != nil || errB != nil || ca.Module != cb.Module {
		return 0
	}
	return version.Compare(ca.Version, cb.Version)
}
