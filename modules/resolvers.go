package modules

import (
	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/ranges"
	"github.com/albertocavalcante/go-conflict/version"
)

func allResolved(candidates []Candidate) bool {
	return lo.EveryBy(candidates, func(c Candidate) bool { return c.IsResolved() })
}

// LatestResolver selects the candidate with the highest version. Among equal
// versions the earliest registered candidate wins.
type LatestResolver struct {
	Compare func(a, b string) int
}

func (r *LatestResolver) Name() string { return "latest" }

func (r *LatestResolver) Resolve(d *Details) {
	candidates := d.Candidates()
	if len(candidates) == 0 {
		return
	}
	cmp := r.Compare
	if cmp == nil {
		cmp = version.Compare
	}
	d.Select(lo.MaxBy(candidates, func(a, b Candidate) bool {
		return cmp(a.Version(), b.Version()) > 0
	}))
}

// IntersectionResolver selects a version that every candidate's dynamic
// selector could have matched. It only applies once metadata for every
// candidate is resolved and every candidate reports its possible versions.
type IntersectionResolver struct{}

func (r *IntersectionResolver) Name() string { return "intersection" }

func (r *IntersectionResolver) Resolve(d *Details) {
	candidates := d.Candidates()
	if len(candidates) == 0 || !allResolved(candidates) {
		return
	}

	lists := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		vc, ok := c.(VersionedCandidate)
		if !ok {
			return
		}
		lists = append(lists, vc.PossibleVersions())
	}

	common := lists[0]
	for _, other := range lists[1:] {
		common = lo.Filter(common, func(v string, _ int) bool {
			return lo.Contains(other, v)
		})
	}

	for _, v := range common {
		if c, ok := lo.Find(candidates, func(c Candidate) bool { return c.Version() == v }); ok {
			d.Select(c)
			return
		}
	}
}

// RangeRestartResolver restarts resolution when a participant's declared
// ranges have narrowed since this resolver last looked, so the module is
// re-resolved against the tighter range.
type RangeRestartResolver struct {
	tracker        *ranges.Tracker
	lastGeneration int
}

// NewRangeRestartResolver creates a resolver observing tracker.
func NewRangeRestartResolver(tracker *ranges.Tracker) *RangeRestartResolver {
	return &RangeRestartResolver{tracker: tracker}
}

func (r *RangeRestartResolver) Name() string { return "range-restart" }

func (r *RangeRestartResolver) Resolve(d *Details) {
	if !allResolved(d.Candidates()) {
		return
	}
	intersecting := lo.ContainsBy(d.Participants(), func(m coord.ModuleID) bool {
		return r.tracker.HasIntersectingRanges(m.Group, m.Name)
	})
	if !intersecting {
		return
	}
	if gen := r.tracker.Generation(); gen != r.lastGeneration {
		r.lastGeneration = gen
		d.Restart()
	}
}

// PreferResolver pins the version chosen for one module when it is among
// the candidates. It declines for every other conflict.
type PreferResolver struct {
	Module  coord.ModuleID
	Version string
}

func (r *PreferResolver) Name() string { return "prefer " + r.Module.String() + ":" + r.Version }

func (r *PreferResolver) Resolve(d *Details) {
	if !lo.Contains(d.Participants(), r.Module) {
		return
	}
	c, ok := lo.Find(d.Candidates(), func(c Candidate) bool {
		return c.ID().Module == r.Module && c.Version() == r.Version
	})
	if ok {
		d.Select(c)
	}
}
