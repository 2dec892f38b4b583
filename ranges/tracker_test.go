package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-conflict/version"
)

func TestMaybeIntersect_NonRangePassesThrough(t *testing.T) {
	tr := NewTracker(nil)

	for _, s := range []string{"1.0", "1.+", "latest.release"} {
		sel := version.MustParseSelector(s)
		assert.Equal(t, sel, tr.MaybeIntersect("org", "x", sel))
	}
	assert.False(t, tr.HasIntersectingRanges("org", "x"))
	_, ok := tr.Range("org", "x")
	assert.False(t, ok)
}

func TestMaybeIntersect_FirstRangeStoredVerbatim(t *testing.T) {
	tr := NewTracker(nil)
	sel := version.MustParseSelector("[1,8]")

	got := tr.MaybeIntersect("org", "x", sel)
	assert.Equal(t, "[1,8]", got.String())
	assert.False(t, tr.HasIntersectingRanges("org", "x"))
	assert.Equal(t, 0, tr.Generation())
}

func TestMaybeIntersect_NarrowingBumpsGenerationOnce(t *testing.T) {
	tr := NewTracker(nil)
	tr.MaybeIntersect("org", "x", version.MustParseSelector("[1,8]"))

	got := tr.MaybeIntersect("org", "x", version.MustParseSelector("[3,6]"))
	assert.Equal(t, "[3,6]", got.String())
	assert.True(t, tr.HasIntersectingRanges("org", "x"))
	assert.Equal(t, 1, tr.Generation())

	// Same effective range again: no further narrowing.
	again := tr.MaybeIntersect("org", "x", version.MustParseSelector("[3,6]"))
	assert.Equal(t, "[3,6]", again.String())
	assert.Equal(t, 1, tr.Generation())

	// A wider range intersects to the stored one and returns it.
	wider := tr.MaybeIntersect("org", "x", version.MustParseSelector("[2,7]"))
	assert.Equal(t, "[3,6]", wider.String())
	assert.Equal(t, 1, tr.Generation())

	stored, ok := tr.Range("org", "x")
	require.True(t, ok)
	assert.Equal(t, "[3,6]", stored.String())
}

func TestMaybeIntersect_DisjointReturnsIncoming(t *testing.T) {
	tr := NewTracker(nil)
	tr.MaybeIntersect("org", "x", version.MustParseSelector("[1,3]"))

	incoming := version.MustParseSelector("[5,8]")
	got := tr.MaybeIntersect("org", "x", incoming)
	assert.Equal(t, incoming, got, "disjoint ranges defer to ordinary conflict resolution")
	assert.Equal(t, 0, tr.Generation())

	stored, _ := tr.Range("org", "x")
	assert.Equal(t, "[1,3]", stored.String(), "stored range is untouched")
}

func TestMaybeIntersect_ModulesAreIndependent(t *testing.T) {
	tr := NewTracker(nil)
	tr.MaybeIntersect("org", "x", version.MustParseSelector("[1,8]"))
	tr.MaybeIntersect("org", "y", version.MustParseSelector("[3,6]"))

	assert.False(t, tr.HasIntersectingRanges("org", "x"))
	assert.False(t, tr.HasIntersectingRanges("org", "y"))

	tr.MaybeIntersect("org", "y", version.MustParseSelector("[4,9]"))
	assert.True(t, tr.HasIntersectingRanges("org", "y"))
	assert.False(t, tr.HasIntersectingRanges("org", "x"))
	assert.Equal(t, 1, tr.Generation(), "generation is shared across the tracker")
}
