package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRegister_SingleCandidateIsNotAConflict(t *testing.T) {
	reg := NewRegistry[string, string]()

	for _, key := range []string{"a", "b", "c"} {
		g := reg.Register(key, []string{"1.0"}, nil)
		assert.Nil(t, g, "single candidate for %s must not conflict", key)
	}
	assert.False(t, reg.HasConflicts())
	assert.Equal(t, 0, reg.Len())
}

func TestRegister_SecondVersionProducesConflict(t *testing.T) {
	reg := NewRegistry[string, string]()

	require.Nil(t, reg.Register("m", []string{"1.0"}, nil))

	g := reg.Register("m", []string{"1.0", "2.0"}, nil)
	require.NotNil(t, g)
	assert.Equal(t, []string{"m"}, g.Participants())
	assert.Equal(t, "m", g.Target())
	assert.Equal(t, []string{"1.0", "2.0"}, g.Candidates())
	assert.True(t, reg.InConflict("m"))
	assert.Equal(t, 1, reg.Len())

	// Registering again updates the same group instead of queueing a new one.
	again := reg.Register("m", []string{"1.0", "2.0", "3.0"}, nil)
	assert.Same(t, g, again)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"1.0", "2.0", "3.0"}, again.Candidates())
}

func TestRegister_ReplacementIsOrderIndependent(t *testing.T) {
	t.Run("replaced module first", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		require.Nil(t, reg.Register("a", []string{"a-1.0"}, ptr("b")))

		g := reg.Register("b", []string{"b-2.0"}, nil)
		require.NotNil(t, g)
		assert.ElementsMatch(t, []string{"a", "b"}, g.Participants())
		assert.Equal(t, "b", g.Target())
		assert.Equal(t, []string{"b-2.0"}, g.Candidates())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("replacement first", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		require.Nil(t, reg.Register("b", []string{"b-2.0"}, nil))

		g := reg.Register("a", []string{"a-1.0"}, ptr("b"))
		require.NotNil(t, g)
		assert.ElementsMatch(t, []string{"a", "b"}, g.Participants())
		assert.Equal(t, "b", g.Target())
		assert.Equal(t, []string{"b-2.0"}, g.Candidates())
		assert.Equal(t, 1, reg.Len())
	})
}

func TestRegister_ReplacementTargetWinsOverSelfConflict(t *testing.T) {
	reg := NewRegistry[string, string]()

	// a conflicts with itself before its replacement shows up.
	self := reg.Register("a", []string{"a-1.0", "a-2.0"}, ptr("b"))
	require.NotNil(t, self)
	assert.Equal(t, "a", self.Target())

	merged := reg.Register("b", []string{"b-1.0"}, nil)
	require.Same(t, self, merged)
	assert.Equal(t, "b", merged.Target())
	assert.Equal(t, []string{"b-1.0"}, merged.Candidates())

	// A later self-conflict on the replaced key must not steal the target.
	again := reg.Register("a", []string{"a-1.0", "a-2.0", "a-3.0"}, ptr("b"))
	assert.Same(t, merged, again)
	assert.Equal(t, "b", again.Target())
	assert.Equal(t, []string{"b-1.0"}, again.Candidates())

	// Refreshing the target refreshes the authoritative candidates.
	reg.Register("b", []string{"b-1.0", "b-1.1"}, nil)
	assert.Equal(t, []string{"b-1.0", "b-1.1"}, merged.Candidates())
	assert.Equal(t, 1, reg.Len())
}

func TestRegister_ReplacementChainsAndDiamonds(t *testing.T) {
	t.Run("chain a->b->c", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		reg.Register("a", []string{"a"}, ptr("b"))
		reg.Register("b", []string{"b"}, ptr("c"))
		g := reg.Register("c", []string{"c"}, nil)

		require.NotNil(t, g)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, g.Participants())
		assert.Equal(t, "c", g.Target())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("diamond a->c, b->c", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		reg.Register("a", []string{"a"}, ptr("c"))
		reg.Register("b", []string{"b"}, ptr("c"))
		g := reg.Register("c", []string{"c"}, nil)

		require.NotNil(t, g)
		assert.Equal(t, []string{"a", "b", "c"}, g.Participants())
		assert.Equal(t, []string{"c"}, g.Candidates())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("cycle a->b, b->a terminates", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		reg.Register("a", []string{"a"}, ptr("b"))
		g := reg.Register("b", []string{"b"}, ptr("a"))

		require.NotNil(t, g)
		assert.ElementsMatch(t, []string{"a", "b"}, g.Participants())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("two groups folded by a replacement", func(t *testing.T) {
		reg := NewRegistry[string, string]()
		first := reg.Register("x", []string{"x1", "x2"}, nil)
		second := reg.Register("y", []string{"y1", "y2"}, nil)
		require.NotSame(t, first, second)
		require.Equal(t, 2, reg.Len())

		merged := reg.Register("x", []string{"x1", "x2"}, ptr("y"))
		assert.Same(t, first, merged, "the earliest group keeps its slot")
		assert.ElementsMatch(t, []string{"x", "y"}, merged.Participants())
		assert.Equal(t, "y", merged.Target())
		assert.Equal(t, []string{"y1", "y2"}, merged.Candidates())
		assert.Equal(t, 1, reg.Len())
	})
}

func TestPop_IsFIFO(t *testing.T) {
	reg := NewRegistry[string, int]()
	for _, key := range []string{"c", "a", "b"} {
		reg.Register(key, []int{1, 2}, nil)
	}

	var order []string
	for reg.HasConflicts() {
		order = append(order, reg.Pop().Target())
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)
	assert.Nil(t, reg.Pop())
}

func TestPop_ClearsParticipants(t *testing.T) {
	reg := NewRegistry[string, int]()
	reg.Register("m", []int{1, 2}, nil)

	g := reg.Pop()
	require.NotNil(t, g)
	assert.False(t, reg.InConflict("m"))

	// A later registration after resolution creates a fresh group.
	fresh := reg.Register("m", []int{1, 2, 3}, nil)
	require.NotNil(t, fresh)
	assert.NotSame(t, g, fresh)
}

func TestRegister_ZeroKeyPanics(t *testing.T) {
	reg := NewRegistry[string, int]()
	assert.Panics(t, func() { reg.Register("", []int{1}, nil) })
	assert.Panics(t, func() { reg.Register("a", []int{1}, ptr("")) })
}

func TestPotentialConflict(t *testing.T) {
	reg := NewRegistry[string, int]()
	assert.False(t, FromGroup(reg.Register("a", []int{1}, nil)).ConflictExists())

	pc := FromGroup(reg.Register("a", []int{1, 2}, nil))
	require.True(t, pc.ConflictExists())

	var seen []string
	pc.WithParticipatingModules(func(k string) { seen = append(seen, k) })
	assert.Equal(t, []string{"a"}, seen)
}
