package capabilities

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"

	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

// CompareCapabilityVersions orders capability versions semantically when
// both parse as semantic versions and by module version ordering otherwise.
func CompareCapabilityVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		if c := va.Compare(vb); c != 0 {
			return c
		}
	}
	return version.Compare(a, b)
}

// UpgradeResolver evicts every provider of a non-newest capability version.
// It never selects.
type UpgradeResolver struct{}

func (r *UpgradeResolver) Name() string { return "upgrade" }

func (r *UpgradeResolver) Resolve(d *Details) {
	versions := d.Versions()
	if len(versions) < 2 {
		return
	}
	newest := lo.MaxBy(versions, func(a, b *VersionDetails) bool {
		return CompareCapabilityVersions(a.Version(), b.Version()) > 0
	})
	for _, v := range versions {
		if v == newest {
			continue
		}
		for _, c := range v.Candidates() {
			c.Evict()
		}
	}
}

// HighestVersionResolver selects the remaining provider with the highest
// component version. Ties keep the earliest registered provider.
type HighestVersionResolver struct{}

func (r *HighestVersionResolver) Name() string { return "highest-version" }

func (r *HighestVersionResolver) Resolve(d *Details) {
	remaining := d.Candidates()
	if len(remaining) == 0 {
		return
	}
	lo.MaxBy(remaining, func(a, b *CandidateDetails) bool {
		return version.Compare(a.ID().Version, b.ID().Version) > 0
	}).Select()
}

// PreferModuleResolver selects the provider from Module for conflicts on
// Capability. A zero Capability applies to every capability.
type PreferModuleResolver struct {
	Capability coord.CapabilityID
	Module     coord.ModuleID
}

func (r *PreferModuleResolver) Name() string {
	return "prefer " + r.Module.String()
}

func (r *PreferModuleResolver) Resolve(d *Details) {
	if !r.Capability.IsZero() && r.Capability != d.Capability() {
		return
	}
	if c, ok := lo.Find(d.Candidates(), func(c *CandidateDetails) bool {
		return c.ID().Module == r.Module
	}); ok {
		c.Select()
	}
}
