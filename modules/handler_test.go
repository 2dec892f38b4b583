package modules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-conflict/conflict"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/version"
)

func components(module string, versions ...string) []Candidate {
	id := coord.MustModuleID(module)
	out := make([]Candidate, 0, len(versions))
	for _, v := range versions {
		out = append(out, NewComponent(id, v))
	}
	return out
}

func resolveOne(t *testing.T, h *Handler) Result {
	t.Helper()
	var got *Result
	require.NoError(t, h.ResolveNext(func(r Result) { got = &r }))
	require.NotNil(t, got, "action was not called")
	return *got
}

func TestHandler_SingleCandidateNeverConflicts(t *testing.T) {
	h := NewHandler(Config{})
	for _, m := range []string{"org:a", "org:b", "org:c"} {
		pc := h.RegisterModule(coord.MustModuleID(m), components(m, "1.0"))
		assert.False(t, pc.ConflictExists())
	}
	assert.False(t, h.HasConflicts())
}

func TestHandler_HighestVersionByDefault(t *testing.T) {
	h := NewHandler(Config{})
	m := coord.MustModuleID("org:lib")

	require.False(t, h.RegisterModule(m, components("org:lib", "1.0")).ConflictExists())
	pc := h.RegisterModule(m, components("org:lib", "1.0", "2.0", "1.5"))
	require.True(t, pc.ConflictExists())
	assert.Equal(t, []coord.ModuleID{m}, pc.Participants())

	res := resolveOne(t, h)
	assert.Equal(t, conflict.Selected, res.Outcome)
	assert.Equal(t, "2.0", res.Selected.Version())
	assert.Equal(t, "latest", res.DecidedBy)
	assert.False(t, h.HasConflicts())
}

func TestHandler_CustomCompare(t *testing.T) {
	reverse := func(a, b string) int { return -version.Compare(a, b) }
	h := NewHandler(Config{Compare: reverse})
	m := coord.MustModuleID("org:lib")
	h.RegisterModule(m, components("org:lib", "1.0", "2.0", "1.5"))

	res := resolveOne(t, h)
	assert.Equal(t, "1.0", res.Selected.Version())
}

func TestHandler_EmptyChainIsInternalFailure(t *testing.T) {
	h := NewHandler(Config{SkipBuiltins: true})
	m := coord.MustModuleID("org:lib")
	h.RegisterModule(m, components("org:lib", "1.0", "2.0"))

	called := false
	err := h.ResolveNext(func(Result) { called = true })
	require.Error(t, err)
	assert.ErrorIs(t, err, conflict.ErrNoDecision)
	assert.ErrorIs(t, err, conflict.ErrInternal)
	assert.False(t, called, "no selection may be reported")
}

func TestHandler_ResolveNextWithNothingPending(t *testing.T) {
	h := NewHandler(Config{})
	require.NoError(t, h.ResolveNext(func(Result) { t.Fatal("unexpected action") }))
}

func TestHandler_CallerResolverTakesPrecedence(t *testing.T) {
	h := NewHandler(Config{})
	m := coord.MustModuleID("org:lib")
	h.RegisterResolver(&PreferResolver{Module: m, Version: "1.5"})
	h.RegisterModule(m, components("org:lib", "1.0", "2.0", "1.5"))

	res := resolveOne(t, h)
	assert.Equal(t, "1.5", res.Selected.Version())
	assert.Equal(t, "prefer org:lib:1.5", res.DecidedBy)
}

func TestHandler_PreferResolverDeclinesForOtherModules(t *testing.T) {
	h := NewHandler(Config{})
	h.RegisterResolver(&PreferResolver{Module: coord.MustModuleID("org:other"), Version: "1.0"})
	h.RegisterModule(coord.MustModuleID("org:lib"), components("org:lib", "1.0", "2.0"))

	res := resolveOne(t, h)
	assert.Equal(t, "2.0", res.Selected.Version())
	assert.Equal(t, "latest", res.DecidedBy)
}

func TestHandler_ReplacementMergesGroups(t *testing.T) {
	oldID := coord.MustModuleID("org:old")
	newID := coord.MustModuleID("org:new")
	table := ReplacementTable{}
	require.NoError(t, table.Add(oldID, newID))

	for _, tc := range []struct {
		name  string
		order []coord.ModuleID
	}{
		{"replaced first", []coord.ModuleID{oldID, newID}},
		{"replacement first", []coord.ModuleID{newID, oldID}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(Config{Replacements: table})
			var pc conflict.PotentialConflict[coord.ModuleID]
			for _, m := range tc.order {
				pc = h.RegisterModule(m, components(m.String(), "1.0"))
			}
			require.True(t, pc.ConflictExists())
			assert.ElementsMatch(t, []coord.ModuleID{oldID, newID}, pc.Participants())

			res := resolveOne(t, h)
			assert.Equal(t, newID, res.Selected.ID().Module)

			var seen []coord.ModuleID
			res.WithParticipatingModules(func(m coord.ModuleID) { seen = append(seen, m) })
			assert.ElementsMatch(t, []coord.ModuleID{oldID, newID}, seen)
		})
	}
}

func TestHandler_FailedResolutionIsUnresolvable(t *testing.T) {
	boom := errors.New("versions incompatible")
	h := NewHandler(Config{})
	h.RegisterResolver(conflict.NamedResolver("strict", func(d *Details) { d.Fail(boom) }))
	h.RegisterModule(coord.MustModuleID("org:lib"), components("org:lib", "1.0", "2.0"))

	err := h.ResolveNext(func(Result) { t.Fatal("unexpected action") })
	require.Error(t, err)
	assert.ErrorIs(t, err, conflict.ErrUnresolvable)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "strict")
}

func TestHandler_RestartLimit(t *testing.T) {
	h := NewHandler(Config{MaxRestarts: 2})
	h.RegisterResolver(ResolverFunc(func(d *Details) { d.Restart() }))
	m := coord.MustModuleID("org:lib")

	for i := 0; i < 2; i++ {
		h.RegisterModule(m, components("org:lib", "1.0", "2.0"))
		res := resolveOne(t, h)
		assert.True(t, res.IsRestart())
		assert.Nil(t, res.Selected)
	}

	h.RegisterModule(m, components("org:lib", "1.0", "2.0"))
	err := h.ResolveNext(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, conflict.ErrRestartLimit)
	assert.ErrorIs(t, err, conflict.ErrInternal)
}

func TestHandler_RangeNarrowingRestartsOnce(t *testing.T) {
	h := NewHandler(Config{})
	m := coord.MustModuleID("org:lib")

	h.Tracker().MaybeIntersect(m.Group, m.Name, version.MustParseSelector("[1,8]"))
	narrowed := h.Tracker().MaybeIntersect(m.Group, m.Name, version.MustParseSelector("[3,6]"))
	require.Equal(t, "[3,6]", narrowed.String())

	h.RegisterModule(m, components("org:lib", "7.0", "5.0"))
	first := resolveOne(t, h)
	assert.Equal(t, conflict.Restarted, first.Outcome)
	assert.Equal(t, "range-restart", first.DecidedBy)

	// The graph builder re-registers against the narrowed range.
	h.RegisterModule(m, components("org:lib", "5.0", "6.0"))
	second := resolveOne(t, h)
	assert.Equal(t, conflict.Selected, second.Outcome)
	assert.Equal(t, "6.0", second.Selected.Version())
}

func TestHandler_RangeRestartWaitsForMetadata(t *testing.T) {
	h := NewHandler(Config{})
	m := coord.MustModuleID("org:lib")
	h.Tracker().MaybeIntersect(m.Group, m.Name, version.MustParseSelector("[1,8]"))
	h.Tracker().MaybeIntersect(m.Group, m.Name, version.MustParseSelector("[3,6]"))

	pending := &Component{Coord: coord.MustComponentID("org:lib:5.0")}
	h.RegisterModule(m, []Candidate{pending, NewComponent(m, "4.0")})

	res := resolveOne(t, h)
	assert.Equal(t, conflict.Selected, res.Outcome)
	assert.Equal(t, "latest", res.DecidedBy)
}

func TestIntersectionResolver(t *testing.T) {
	m := coord.MustModuleID("org:lib")
	versioned := func(v string, possible ...string) *Component {
		c := NewComponent(m, v)
		c.Possible = possible
		return c
	}

	tests := []struct {
		name       string
		candidates []Candidate
		want       string // empty means decline
	}{
		{
			name: "common version selected",
			candidates: []Candidate{
				versioned("1.5", "1.5", "1.4", "1.3"),
				versioned("1.4", "1.4", "1.3"),
			},
			want: "1.4",
		},
		{
			name: "empty intersection declines",
			candidates: []Candidate{
				versioned("2.0", "2.0"),
				versioned("1.0", "1.0"),
			},
		},
		{
			name: "intersection not among candidates declines",
			candidates: []Candidate{
				versioned("1.5", "1.5", "1.3"),
				versioned("1.4", "1.4", "1.3"),
			},
		},
		{
			name: "unresolved candidate declines",
			candidates: []Candidate{
				versioned("1.4", "1.4"),
				&Component{Coord: coord.ComponentID{Module: m, Version: "1.4"}, Possible: []string{"1.4"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := conflict.NewDetails([]coord.ModuleID{m}, tt.candidates)
			(&IntersectionResolver{}).Resolve(d)

			sel, ok := d.Selected()
			if tt.want == "" {
				assert.False(t, d.IsDecided())
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, sel.Version())
		})
	}
}

type fixedCandidate struct{ id coord.ComponentID }

func (c fixedCandidate) ID() coord.ComponentID { return c.id }
func (c fixedCandidate) Version() string       { return c.id.Version }
func (c fixedCandidate) IsResolved() bool      { return true }

func TestIntersectionResolver_RequiresVersionedCandidates(t *testing.T) {
	m := coord.MustModuleID("org:lib")
	d := conflict.NewDetails([]coord.ModuleID{m}, []Candidate{
		fixedCandidate{coord.MustComponentID("org:lib:1.0")},
		NewComponent(m, "1.0"),
	})
	(&IntersectionResolver{}).Resolve(d)
	assert.False(t, d.IsDecided())
}

func TestLatestResolver_TieKeepsFirst(t *testing.T) {
	m := coord.MustModuleID("org:lib")
	first := NewComponent(m, "2.0")
	second := NewComponent(m, "2.0")
	d := conflict.NewDetails([]coord.ModuleID{m}, []Candidate{NewComponent(m, "1.0"), first, second})

	(&LatestResolver{}).Resolve(d)
	sel, ok := d.Selected()
	require.True(t, ok)
	assert.Same(t, first, sel)
}
