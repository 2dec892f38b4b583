package goconflict

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-conflict/capabilities"
	"github.com/albertocavalcante/go-conflict/coord"
	"github.com/albertocavalcante/go-conflict/modules"
)

// alwaysRestart asks for a restart on every conflict.
type alwaysRestart struct{}

func (alwaysRestart) Name() string               { return "always-restart" }
func (alwaysRestart) Resolve(d *modules.Details) { d.Restart() }

type testProvider struct {
	id       coord.ComponentID
	rejected bool
}

func (p *testProvider) ID() coord.ComponentID                  { return p.id }
func (p *testProvider) IsCandidateForConflictResolution() bool { return !p.rejected }

func candidates(module string, versions ...string) []modules.Candidate {
	id := coord.MustModuleID(module)
	out := make([]modules.Candidate, 0, len(versions))
	for _, v := range versions {
		out = append(out, modules.NewComponent(id, v))
	}
	return out
}

func TestNewSession_Defaults(t *testing.T) {
	s, err := NewSession()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfiguration, s.Configuration())
	assert.NotNil(t, s.Tracker())
	assert.False(t, s.HasConflicts())
	assert.NoError(t, s.Finish())
	assert.Empty(t, s.Outcome().Decisions)
}

func TestNewSession_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty configuration", WithConfigurationName("")},
		{"negative restarts", WithMaxRestarts(-1)},
		{"bad replacement source", WithReplacement("old", "org:new")},
		{"bad replacement target", WithReplacement("org:old", "new")},
		{"self replacement", WithReplacement("org:a", "org:a")},
		{"bad replacement map", WithReplacements(map[string]string{"org:a": "bad"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := NewSession(WithModuleResolver(nil))
	assert.Error(t, err)
	_, err = NewSession(WithCapabilityResolver(nil))
	assert.Error(t, err)
}

func TestNewSession_ConflictingReplacements(t *testing.T) {
	_, err := NewSession(
		WithReplacement("org:a", "org:b"),
		WithReplacements(map[string]string{"org:a": "org:c"}),
	)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSession_SingleCandidateIsNoConflict(t *testing.T) {
	s, err := NewSession()
	require.NoError(t, err)

	pc := s.RegisterModule(coord.MustModuleID("org:a"), candidates("org:a", "1.0"))
	assert.False(t, pc.ConflictExists())
	assert.False(t, s.HasConflicts())

	pc = s.RegisterModule(coord.MustModuleID("org:b"), candidates("org:b", "1.0", "2.0"))
	assert.True(t, pc.ConflictExists())
	assert.True(t, s.HasModuleConflicts())
	assert.False(t, s.HasCapabilityConflicts())
}

func TestSession_ModuleResolverPrecedence(t *testing.T) {
	first := modules.ResolverFunc(func(d *modules.Details) {
		d.Select(d.Candidates()[0])
	})
	s, err := NewSession(
		WithModuleResolver(first),
		WithModuleResolver(&modules.PreferResolver{Module: coord.MustModuleID("org:a"), Version: "1.5"}),
	)
	require.NoError(t, err)

	s.RegisterModule(coord.MustModuleID("org:a"), candidates("org:a", "1.0", "1.5", "2.0"))
	var got modules.Result
	require.NoError(t, s.ResolveNextModule(func(r modules.Result) { got = r }))

	// The most recently added resolver decides first.
	assert.Equal(t, "1.5", got.Selected.Version())
	assert.Equal(t, "prefer org:a:1.5", got.DecidedBy)
	assert.False(t, s.HasConflicts())
}

func TestSession_VersionComparator(t *testing.T) {
	lowest := func(a, b string) int { return strings.Compare(b, a) }
	s, err := NewSession(WithVersionComparator(lowest))
	require.NoError(t, err)

	s.RegisterModule(coord.MustModuleID("org:a"), candidates("org:a", "1.0", "2.0"))
	require.NoError(t, s.ResolveNextModule(nil))

	sel, ok := s.Outcome().Selected("org:a")
	require.True(t, ok)
	assert.Equal(t, "org:a:1.0", sel)
}

func TestSession_CapabilityResolverOrder(t *testing.T) {
	var order []string
	record := func(name string) capabilities.Resolver {
		return capabilities.ResolverFunc(func(*capabilities.Details) { order = append(order, name) })
	}
	s, err := NewSession(
		WithCapabilityResolver(record("first")),
		WithCapabilityResolver(record("second")),
		WithSelectHighestCapability(true),
	)
	require.NoError(t, err)

	capability := coord.MustCapability("cap:x:1.0")
	a := &testProvider{id: coord.MustComponentID("org:a:1.0")}
	b := &testProvider{id: coord.MustComponentID("org:b:2.0")}
	s.RegisterCapability(a, capability, nil)
	s.RegisterCapability(b, capability, nil)

	var got capabilities.Result
	require.NoError(t, s.ResolveNextCapability(func(r capabilities.Result) { got = r }))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, b.id, got.Selected.ID())
	assert.Equal(t, "highest-version", got.DecidedBy)
	assert.Equal(t, "org:b:2.0", s.Outcome().Capabilities["cap:x"])
}

func TestSession_FailOnVersionConflictIgnoresSameVersion(t *testing.T) {
	s, err := NewSession(
		WithFailOnVersionConflict(true),
		WithReplacement("org:old", "org:new"),
	)
	require.NoError(t, err)

	// A replacement merge with a single version is not a version conflict.
	s.RegisterModule(coord.MustModuleID("org:old"), candidates("org:old", "1.0"))
	s.RegisterModule(coord.MustModuleID("org:new"), candidates("org:new", "1.0"))
	require.True(t, s.HasModuleConflicts())
	require.NoError(t, s.ResolveNextModule(nil))

	assert.Empty(t, s.Conflicts())
	assert.NoError(t, s.Finish())
}

func TestSession_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := NewSession(WithLogger(logger), WithConfigurationName("compile"))
	require.NoError(t, err)

	s.RegisterModule(coord.MustModuleID("org:a"), candidates("org:a", "1.0", "2.0"))
	require.NoError(t, s.ResolveNextModule(nil))

	out := buf.String()
	assert.Contains(t, out, "module conflict detected")
	assert.Contains(t, out, "module conflict resolved")
	assert.Contains(t, out, "configuration=compile")
}
