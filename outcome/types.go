package outcome

import (
	"strings"
)

// Kind is the conflict dimension a decision belongs to.
type Kind string

const (
	// KindModule is a module version or replacement conflict.
	KindModule Kind = "module"

	// KindCapability is a capability conflict.
	KindCapability Kind = "capability"
)

// Outcome is the record of one resolution session.
type Outcome struct {
	// Configuration names the resolved configuration.
	Configuration string `json:"configuration,omitempty"`

	// Decisions holds every decision in the order it was taken.
	Decisions []Decision `json:"decisions"`

	// Modules maps each module ("group:name") that went through conflict
	// resolution to the component that finally won it.
	Modules map[string]string `json:"modules,omitempty"`

	// Capabilities maps each conflicting capability to its winning component.
	Capabilities map[string]string `json:"capabilities,omitempty"`
}

// Decision is one resolved, or restarted, conflict.
type Decision struct {
	// Seq is the position of the decision within the session, from 1.
	Seq int `json:"seq"`

	Kind Kind `json:"kind"`

	// Subject is the module or capability the conflict was keyed by.
	Subject string `json:"subject"`

	// Participants lists the conflicting modules or capabilities.
	Participants []string `json:"participants,omitempty"`

	// Candidates are the components that were considered.
	Candidates []Candidate `json:"candidates"`

	// Selected is the winning component, empty for restarts.
	Selected string `json:"selected,omitempty"`

	// DecidedBy names the resolver that took the decision.
	DecidedBy string `json:"decided_by"`

	// Restarted is true if the resolver asked for re-resolution instead of
	// selecting.
	Restarted bool `json:"restarted,omitempty"`
}

// Candidate is a component considered by a decision.
type Candidate struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Selected bool   `json:"selected,omitempty"`
	Evicted  bool   `json:"evicted,omitempty"`
}

// Involves reports whether subject is the decision's subject or one of its
// participants.
func (d Decision) Involves(subject string) bool {
	if d.Subject == subject {
		return true
	}
	for _, p := range d.Participants {
		if p == subject {
			return true
		}
	}
	return false
}

// String returns a one-line summary of the decision.
func (d Decision) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	b.WriteString(" ")
	b.WriteString(d.Subject)
	if d.Restarted {
		b.WriteString(": restarted")
	} else {
		b.WriteString(" -> ")
		b.WriteString(d.Selected)
	}
	if d.DecidedBy != "" {
		b.WriteString(" (by ")
		b.WriteString(d.DecidedBy)
		b.WriteString(")")
	}
	return b.String()
}

// Explanation describes how one subject was decided.
type Explanation struct {
	// Subject is the module or capability being explained.
	Subject string `json:"subject"`

	// Kind is the dimension of the final decision.
	Kind Kind `json:"kind"`

	// Final is the winning component, empty if the subject never settled.
	Final string `json:"final,omitempty"`

	// Decisions lists every decision involving the subject, in order.
	Decisions []Decision `json:"decisions"`
}

// Stats summarizes an outcome.
type Stats struct {
	Decisions           int
	ModuleConflicts     int
	CapabilityConflicts int
	Restarts            int
	Evicted             int
}
