package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	ranges []ClipRange
}

func (e *emitted) emit(first, last int) {
	e.ranges = append(e.ranges, ClipRange{first, last})
}

// visible returns the ranges between the sentinels.
func visible(c *ClipList) []ClipRange {
	r := c.Ranges()
	if len(r) < 3 {
		return nil
	}
	return r[1 : len(r)-1]
}

func requireSorted(t *testing.T, c *ClipList) {
	t.Helper()
	r := c.Ranges()
	for i := range r {
		require.LessOrEqual(t, r[i].First, r[i].Last, "range %d inverted: %v", i, r)
		if i > 0 {
			require.Greater(t, r[i].First, r[i-1].Last+1, "ranges %d and %d touch: %v", i-1, i, r)
		}
	}
}

func TestClipListReset(t *testing.T) {
	c := NewClipList(320)
	assert.Equal(t, []ClipRange{
		{math.MinInt32 + 1, -1},
		{320, math.MaxInt32 - 1},
	}, c.Ranges())
	assert.Equal(t, 2, c.Len())

	c.ClipSolid(10, 20, func(int, int) {})
	c.Reset(160)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 160, c.Ranges()[1].First)
}

func TestClipSolid(t *testing.T) {
	tests := []struct {
		name   string
		before []ClipRange
		first  int
		last   int
		emits  []ClipRange
		after  []ClipRange
	}{
		{
			name:  "empty list",
			first: 10, last: 20,
			emits: []ClipRange{{10, 20}},
			after: []ClipRange{{10, 20}},
		},
		{
			name:   "in front of a range",
			before: []ClipRange{{50, 60}},
			first:  10, last: 20,
			emits: []ClipRange{{10, 20}},
			after: []ClipRange{{10, 20}, {50, 60}},
		},
		{
			name:   "touching merges",
			before: []ClipRange{{10, 20}},
			first:  21, last: 30,
			emits: []ClipRange{{21, 30}},
			after: []ClipRange{{10, 30}},
		},
		{
			name:   "touching from the front",
			before: []ClipRange{{10, 20}},
			first:  5, last: 9,
			emits: []ClipRange{{5, 9}},
			after: []ClipRange{{5, 20}},
		},
		{
			name:   "leading fragment",
			before: []ClipRange{{10, 20}},
			first:  5, last: 15,
			emits: []ClipRange{{5, 9}},
			after: []ClipRange{{5, 20}},
		},
		{
			name:   "contained",
			before: []ClipRange{{10, 20}},
			first:  12, last: 18,
			after: []ClipRange{{10, 20}},
		},
		{
			name:   "spans gaps",
			before: []ClipRange{{10, 20}, {30, 40}, {60, 70}},
			first:  5, last: 50,
			emits: []ClipRange{{5, 9}, {21, 29}, {41, 50}},
			after: []ClipRange{{5, 50}, {60, 70}},
		},
		{
			name:   "ends inside a later range",
			before: []ClipRange{{10, 20}, {30, 40}},
			first:  15, last: 35,
			emits: []ClipRange{{21, 29}},
			after: []ClipRange{{10, 40}},
		},
		{
			name:  "left screen edge joins the sentinel",
			first: 0, last: 5,
			emits: []ClipRange{{0, 5}},
			after: []ClipRange{},
		},
		{
			name:   "fills the screen",
			before: []ClipRange{{100, 200}},
			first:  0, last: 319,
			emits: []ClipRange{{0, 99}, {201, 319}},
			after: []ClipRange{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClipList(320)
			for _, r := range tc.before {
				c.ClipSolid(r.First, r.Last, func(int, int) {})
			}

			var e emitted
			c.ClipSolid(tc.first, tc.last, e.emit)
			assert.Equal(t, tc.emits, e.ranges)
			requireSorted(t, c)
			if len(tc.after) == 0 {
				assert.Empty(t, visible(c))
			} else {
				assert.Equal(t, tc.after, visible(c))
			}
		})
	}
}

func TestClipSolidFullScreenCollapses(t *testing.T) {
	c := NewClipList(320)
	c.ClipSolid(0, 319, func(int, int) {})
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Covered(0, 319))
}

func TestClipSolidIdempotent(t *testing.T) {
	c := NewClipList(320)
	c.ClipSolid(40, 80, func(int, int) {})
	c.ClipSolid(100, 120, func(int, int) {})
	before := c.Ranges()

	var e emitted
	c.ClipSolid(40, 80, e.emit)
	assert.Empty(t, e.ranges)
	assert.Equal(t, before, c.Ranges())
}

func TestClipSolidCoversEachColumnOnce(t *testing.T) {
	const width = 320
	rng := rand.New(rand.NewPCG(1, 2))

	for round := range 50 {
		c := NewClipList(width)
		hits := make([]int, width)
		count := func(first, last int) {
			for x := first; x <= last; x++ {
				hits[x]++
			}
		}

		for range 40 {
			first := rng.IntN(width)
			last := min(first+rng.IntN(40), width-1)
			c.ClipSolid(first, last, count)
			requireSorted(t, c)
		}
		// A wall across the whole view closes whatever is left.
		c.ClipSolid(0, width-1, count)

		for x, n := range hits {
			require.Equal(t, 1, n, "round %d column %d", round, x)
		}
		require.Equal(t, 1, c.Len())
	}
}

func TestClipPass(t *testing.T) {
	c := NewClipList(320)
	c.ClipSolid(10, 20, func(int, int) {})
	c.ClipSolid(30, 40, func(int, int) {})
	before := c.Ranges()

	tests := []struct {
		name        string
		first, last int
		want        []ClipRange
	}{
		{"open", 50, 60, []ClipRange{{50, 60}}},
		{"hidden", 12, 18, nil},
		{"leading fragment", 0, 15, []ClipRange{{0, 9}}},
		{"between", 15, 35, []ClipRange{{21, 29}}},
		{"across", 0, 50, []ClipRange{{0, 9}, {21, 29}, {41, 50}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var e emitted
			c.ClipPass(tc.first, tc.last, e.emit)
			assert.Equal(t, tc.want, e.ranges)
			assert.Equal(t, before, c.Ranges(), "window changed the solid list")
		})
	}
}

func TestCovered(t *testing.T) {
	c := NewClipList(320)
	c.ClipSolid(10, 20, func(int, int) {})

	assert.True(t, c.Covered(10, 20))
	assert.True(t, c.Covered(12, 15))
	assert.False(t, c.Covered(9, 15))
	assert.False(t, c.Covered(15, 21))
	assert.False(t, c.Covered(0, 319))
	assert.True(t, c.Covered(-5, -1), "off-screen columns are covered by the sentinel")
}

func BenchmarkClipSolid(b *testing.B) {
	c := NewClipList(320)
	noop := func(int, int) {}
	for b.Loop() {
		c.Reset(320)
		for x := 0; x < 320; x += 8 {
			c.ClipSolid(x, x+3, noop)
		}
		c.ClipSolid(0, 319, noop)
	}
}
