// Package fixed provides the 16.16 fixed-point numbers and binary angles
// used throughout the renderer.
package fixed

import "math"

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

const (
	FracBits = 16
	FracUnit = Fixed(1 << FracBits)
)

// Min and Max are the saturation values returned by Div on overflow.
const (
	Min = Fixed(math.MinInt32)
	Max = Fixed(math.MaxInt32)
)

// FromInt converts an integer to fixed point.
func FromInt(i int) Fixed {
	return Fixed(i << FracBits)
}

// FromFloat converts a float to fixed point, truncating toward zero.
func FromFloat(f float64) Fixed {
	return Fixed(f * float64(FracUnit))
}

// Int returns the integer part (arithmetic shift, so it floors).
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FracUnit)
}

// Abs returns the absolute value of f.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Mul multiplies two fixed-point numbers.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Div divides a by b. Results that would overflow saturate to Min or Max
// depending on the sign of the quotient.
func Div(a, b Fixed) Fixed {
	if abs64(int64(a))>>14 >= abs64(int64(b)) {
		if (a ^ b) < 0 {
			return Min
		}
		return Max
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// BBox is an axis-aligned bounding box indexed by BoxTop, BoxBottom,
// BoxLeft and BoxRight.
type BBox [4]Fixed

const (
	BoxTop = iota
	BoxBottom
	BoxLeft
	BoxRight
)

// EmptyBBox returns a box that any AddPoint call will shrink onto.
func EmptyBBox() BBox {
	return BBox{Min, Max, Max, Min}
}

// AddPoint grows the box to include (x, y).
func (b *BBox) AddPoint(x, y Fixed) {
	if x < b[BoxLeft] {
		b[BoxLeft] = x
	}
	if x > b[BoxRight] {
		b[BoxRight] = x
	}
	if y < b[BoxBottom] {
		b[BoxBottom] = y
	}
	if y > b[BoxTop] {
		b[BoxTop] = y
	}
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	u := b
	u.AddPoint(o[BoxLeft], o[BoxBottom])
	u.AddPoint(o[BoxRight], o[BoxTop])
	return u
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b BBox) Contains(x, y Fixed) bool {
	return x >= b[BoxLeft] && x <= b[BoxRight] && y >= b[BoxBottom] && y <= b[BoxTop]
}
