package outcome

import (
	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/modules"
)

// Recorder builds an Outcome from resolution results.
type Recorder struct {
	out *Outcome
}

// NewRecorder creates a recorder for the named configuration.
func NewRecorder(configuration string) *Recorder {
	return &Recorder{out: &Outcome{
		Configuration: configuration,
		Modules:       make(map[string]string),
		Capabilities:  make(map[string]string),
	}}
}

// RecordModule records a module conflict decision.
func (r *Recorder) RecordModule(res modules.Result) {
	d := Decision{
		Kind:      KindModule,
		Subject:   res.Module.String(),
		DecidedBy: res.DecidedBy,
		Restarted: res.IsRestart(),
		Participants: lo.Map(res.Participants, func(m coord.ModuleID, _ int) string {
			return m.String()
		}),
	}

	var selected coord.ComponentID
	if res.Selected != nil {
		selected = res.Selected.ID()
		d.Selected = selected.String()
	}
	for _, c := range res.Candidates {
		d.Candidates = append(d.Candidates, Candidate{
			ID:       c.ID().String(),
			Version:  c.Version(),
			Selected: res.Selected != nil && c.ID() == selected,
		})
	}

	if !d.Restarted {
		for _, p := range d.Participants {
			r.out.Modules[p] = d.Selected
		}
	}
	r.add(d)
}

// RecordCapability records a capability conflict decision.
func (r *Recorder) RecordCapability(res capabilities.Result) {
	subject := res.Capability.String()
	d := Decision{
		Kind:         KindCapability,
		Subject:      subject,
		Participants: []string{subject},
		Selected:     res.Selected.ID().String(),
		DecidedBy:    res.DecidedBy,
	}
	d.Candidates = append(d.Candidates, Candidate{
		ID:       d.Selected,
		Version:  res.Selected.ID().Version,
		Selected: true,
	})
	for _, c := range res.Evicted {
		d.Candidates = append(d.Candidates, Candidate{
			ID:      c.ID().String(),
			Version: c.ID().Version,
			Evicted: true,
		})
	}
	r.out.Capabilities[subject] = d.Selected
	r.add(d)
}

func (r *Recorder) add(d Decision) {
	d.Seq = len(r.out.Decisions) + 1
	r.out.Decisions = append(r.out.Decisions, d)
}

// Outcome returns the outcome recorded so far. The recorder keeps ownership;
// further records are visible through the returned value.
func (r *Recorder) Outcome() *Outcome {
	return r.out
}
