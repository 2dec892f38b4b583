package outcome

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const separatorWidth = 60 // Width of separator lines in text output

// ToJSON outputs the outcome as indented JSON.
func (o *Outcome) ToJSON() ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}

// FromJSON parses an outcome produced by ToJSON.
func FromJSON(data []byte) (*Outcome, error) {
	var o Outcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse outcome: %w", err)
	}
	return &o, nil
}

// ToDOT outputs the decisions in Graphviz DOT format. Each subject points at
// its winner; evicted and losing candidates hang off it with dashed edges.
func (o *Outcome) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph conflicts {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	subjects := lo.Uniq(lo.Map(o.Decisions, func(d Decision, _ int) string { return d.Subject }))
	for _, s := range subjects {
		buf.WriteString(fmt.Sprintf("  %q [shape=ellipse];\n", s))
	}
	buf.WriteString("\n")

	for _, d := range o.Decisions {
		if d.Restarted {
			continue
		}
		for _, c := range d.Candidates {
			var attrs string
			switch {
			case c.Selected:
				attrs = fmt.Sprintf(` [label=%q, style=bold]`, d.DecidedBy)
			case c.Evicted:
				attrs = ` [style=dashed, color=red]`
			default:
				attrs = ` [style=dashed]`
			}
			buf.WriteString(fmt.Sprintf("  %q -> %q%s;\n", d.Subject, c.ID, attrs))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable summary of the outcome.
func (o *Outcome) ToText() string {
	var buf bytes.Buffer

	title := "Conflict Resolution"
	if o.Configuration != "" {
		title += fmt.Sprintf(" (configuration: %s)", o.Configuration)
	}
	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := o.Stats()
	buf.WriteString(fmt.Sprintf("Decisions: %d\n", stats.Decisions))
	buf.WriteString(fmt.Sprintf("Module conflicts: %d\n", stats.ModuleConflicts))
	buf.WriteString(fmt.Sprintf("Capability conflicts: %d\n", stats.CapabilityConflicts))
	if stats.Restarts > 0 {
		buf.WriteString(fmt.Sprintf("Restarts: %d\n", stats.Restarts))
	}
	buf.WriteString("\n")

	if len(o.Modules) > 0 {
		buf.WriteString("Modules:\n")
		for _, m := range slices.Sorted(maps.Keys(o.Modules)) {
			buf.WriteString(fmt.Sprintf("  %s -> %s\n", m, o.Modules[m]))
		}
	}
	if len(o.Capabilities) > 0 {
		buf.WriteString("Capabilities:\n")
		for _, c := range slices.Sorted(maps.Keys(o.Capabilities)) {
			buf.WriteString(fmt.Sprintf("  %s -> %s\n", c, o.Capabilities[c]))
		}
	}
	return buf.String()
}

// ToExplainText outputs a human-readable explanation for one subject.
func (o *Outcome) ToExplainText(subject string) (string, error) {
	e, err := o.Explain(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Explanation for: %s (%s)\n", e.Subject, e.Kind))
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	if e.Final != "" {
		buf.WriteString(fmt.Sprintf("Selected: %s\n\n", e.Final))
	}

	for _, d := range e.Decisions {
		buf.WriteString(fmt.Sprintf("%d. %s\n", d.Seq, d))
		if len(d.Participants) > 1 {
			buf.WriteString(fmt.Sprintf("   Participants: %s\n", strings.Join(d.Participants, ", ")))
		}
		for _, c := range d.Candidates {
			status := "  "
			switch {
			case c.Selected:
				status = "✓ "
			case c.Evicted:
				status = "✗ "
			}
			buf.WriteString(fmt.Sprintf("     %s%s\n", status, c.ID))
		}
	}
	return buf.String(), nil
}

