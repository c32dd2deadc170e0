package render

import "math"

// ClipRange is an inclusive run of screen columns that is already solid.
type ClipRange struct {
	First, Last int
}

// ClipList is the solid list: sorted, non-overlapping, non-touching column
// ranges bounded by two sentinels that extend past the screen edges, so
// searches never run off either end.
type ClipList struct {
	ranges []ClipRange
}

// NewClipList returns a list sized for a view width.
func NewClipList(width int) *ClipList {
	c := &ClipList{}
	c.Reset(width)
	return c
}

// Reset empties the list for a new frame. The backing array is reused.
func (c *ClipList) Reset(width int) {
	// Alternating one-column gaps is the worst case, plus the sentinels.
	if need := width/2 + 3; cap(c.ranges) < need {
		c.ranges = make([]ClipRange, 0, need)
	}
	c.ranges = append(c.ranges[:0],
		ClipRange{First: math.MinInt32 + 1, Last: -1},
		ClipRange{First: width, Last: math.MaxInt32 - 1},
	)
}

// ClipSolid emits every part of [first, last] not yet solid and then marks
// the whole range solid, merging it with any range it touches.
func (c *ClipList) ClipSolid(first, last int, emit func(first, last int)) {
	r := c.ranges
	start := 0

	// Find the first range that touches [first, last]. Adjacent columns
	// count as touching.
	for r[start].Last < first-1 {
		start++
	}

	if first < r[start].First {
		if last < r[start].First-1 {
			// Entirely visible in front of start: insert a new range.
			emit(first, last)
			c.ranges = append(c.ranges, ClipRange{})
			copy(c.ranges[start+1:], c.ranges[start:])
			c.ranges[start] = ClipRange{First: first, Last: last}
			return
		}

		// Leading fragment, then grow start backward.
		emit(first, r[start].First-1)
		r[start].First = first
	}

	if last <= r[start].Last {
		return
	}

	next := start
	for last >= r[next+1].First-1 {
		// The gap between two ranges.
		emit(r[next].Last+1, r[next+1].First-1)
		next++

		if last <= r[next].Last {
			r[start].Last = r[next].Last
			c.crunch(start, next)
			return
		}
	}

	// Trailing fragment after next.
	emit(r[next].Last+1, last)
	r[start].Last = last
	c.crunch(start, next)
}

// crunch removes the ranges start+1..next, which start now covers.
func (c *ClipList) crunch(start, next int) {
	if next == start {
		return
	}
	n := copy(c.ranges[start+1:], c.ranges[next+1:])
	c.ranges = c.ranges[:start+1+n]
}

// ClipPass emits every part of [first, last] not yet solid without
// changing the list. Windows use it: they are drawn but can be seen past.
func (c *ClipList) ClipPass(first, last int, emit func(first, last int)) {
	r := c.ranges
	start := 0

	for r[start].Last < first-1 {
		start++
	}

	if first < r[start].First {
		if last < r[start].First-1 {
			emit(first, last)
			return
		}
		emit(first, r[start].First-1)
	}

	if last <= r[start].Last {
		return
	}

	for last >= r[start+1].First-1 {
		emit(r[start].Last+1, r[start+1].First-1)
		start++

		if last <= r[start].Last {
			return
		}
	}

	emit(r[start].Last+1, last)
}

// Covered reports whether every column in [first, last] is solid.
func (c *ClipList) Covered(first, last int) bool {
	start := 0
	for c.ranges[start].Last < last {
		start++
	}
	return first >= c.ranges[start].First
}

// Len returns the number of ranges, sentinels included.
func (c *ClipList) Len() int {
	return len(c.ranges)
}

// Ranges returns a copy of the list, sentinels included.
func (c *ClipList) Ranges() []ClipRange {
	return append([]ClipRange(nil), c.ranges...)
}
