package capabilities

import (
	"slices"

	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/coord"
)

// Details is the view a capability resolver acts on. Candidates are grouped
// by the capability version they provide.
type Details struct {
	capability coord.CapabilityID
	versions   []*VersionDetails

	selected  *CandidateDetails
	decidedBy string
	running   string
}

func newDetails(capability coord.CapabilityID, providers []*provider) *Details {
	d := &Details{capability: capability}
	byVersion := make(map[string]*VersionDetails)
	for _, p := range providers {
		vd, ok := byVersion[p.capability.Version]
		if !ok {
			vd = &VersionDetails{capability: p.capability}
			byVersion[p.capability.Version] = vd
			d.versions = append(d.versions, vd)
		}
		vd.candidates = append(vd.candidates, &CandidateDetails{details: d, provider: p})
	}
	return d
}

// Capability returns the capability identity in conflict.
func (d *Details) Capability() coord.CapabilityID { return d.capability }

// Versions returns the distinct capability versions in first-seen order.
func (d *Details) Versions() []*VersionDetails { return slices.Clone(d.versions) }

// Candidates returns every candidate that has not been evicted.
func (d *Details) Candidates() []*CandidateDetails {
	return lo.Filter(d.all(), func(c *CandidateDetails, _ int) bool { return !c.evicted })
}

func (d *Details) all() []*CandidateDetails {
	return lo.FlatMap(d.versions, func(v *VersionDetails, _ int) []*CandidateDetails { return v.candidates })
}

// IsResolved reports whether a candidate has been selected.
func (d *Details) IsResolved() bool { return d.selected != nil }

// Selected returns the selected candidate.
func (d *Details) Selected() (Candidate, bool) {
	if d.selected == nil {
		return nil, false
	}
	return d.selected.provider.candidate, true
}

// Evicted returns the evicted candidates in version, then registration order.
func (d *Details) Evicted() []Candidate {
	evicted := lo.Filter(d.all(), func(c *CandidateDetails, _ int) bool { return c.evicted })
	return lo.Map(evicted, func(c *CandidateDetails, _ int) Candidate { return c.provider.candidate })
}

// DecidedBy names the resolver that selected the winner.
func (d *Details) DecidedBy() string { return d.decidedBy }

// VersionDetails holds the candidates providing one capability version.
type VersionDetails struct {
	capability coord.Capability
	candidates []*CandidateDetails
}

// Capability returns the versioned capability.
func (v *VersionDetails) Capability() coord.Capability { return v.capability }

// Version returns the capability version.
func (v *VersionDetails) Version() string { return v.capability.Version }

// Candidates returns every candidate providing this version, evicted or not.
func (v *VersionDetails) Candidates() []*CandidateDetails { return slices.Clone(v.candidates) }

// CandidateDetails is one provider of the capability.
type CandidateDetails struct {
	details  *Details
	provider *provider
	evicted  bool
}

// Candidate returns the underlying candidate.
func (c *CandidateDetails) Candidate() Candidate { return c.provider.candidate }

// ID returns the candidate's component identifier.
func (c *CandidateDetails) ID() coord.ComponentID { return c.provider.candidate.ID() }

// Capability returns the capability version this candidate provides.
func (c *CandidateDetails) Capability() coord.Capability { return c.provider.capability }

// Evicted reports whether the candidate has been evicted.
func (c *CandidateDetails) Evicted() bool { return c.evicted }

// Evict removes the candidate from the selectable set. Evicting the selected
// candidate has no effect.
func (c *CandidateDetails) Evict() {
	if c.details.selected == c {
		return
	}
	c.evicted = true
}

// Select makes this candidate the winner and evicts every other one. Only
// the first selection counts, and an evicted candidate cannot be selected.
func (c *CandidateDetails) Select() {
	d := c.details
	if d.selected != nil || c.evicted {
		return
	}
	d.selected = c
	d.decidedBy = d.running
	for _, other := range d.all() {
		if other != c {
			other.evicted = true
		}
	}
}
