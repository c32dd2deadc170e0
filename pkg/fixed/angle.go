package fixed

// Angle is a binary angle: the full circle maps onto the uint32 range, so
// angle arithmetic wraps for free.
type Angle uint32

const (
	Ang45  Angle = 0x20000000
	Ang90  Angle = 0x40000000
	Ang180 Angle = 0x80000000
	Ang270 Angle = 0xc0000000
	AngMax Angle = 0xffffffff
)

const (
	// FineAngles is the resolution of the sine and tangent tables.
	FineAngles = 8192
	FineMask   = FineAngles - 1
	// AngleToFineShift converts an Angle into a fine table index.
	AngleToFineShift = 19

	SlopeRange = 2048
	SlopeBits  = 11
	dBits      = FracBits - SlopeBits
)

// Fine returns the fine table index of a.
func (a Angle) Fine() int {
	return int(a >> AngleToFineShift)
}

// Degrees returns a in degrees, for logs and tests.
func (a Angle) Degrees() float64 {
	return float64(a) * 360 / 4294967296.0
}

// AngleFromDegrees converts degrees to a binary angle.
func AngleFromDegrees(deg float64) Angle {
	for deg < 0 {
		deg += 360
	}
	return Angle(uint32(int64(deg*4294967296.0/360) & 0xffffffff))
}

// Sin returns the fixed-point sine of a.
func Sin(a Angle) Fixed {
	return FineSine[a.Fine()]
}

// Cos returns the fixed-point cosine of a.
func Cos(a Angle) Fixed {
	return FineCosine[a.Fine()]
}

// SlopeDiv returns num/den scaled into the TanToAngle index range.
func SlopeDiv(num, den uint32) int {
	if den < 512 {
		return SlopeRange
	}
	ans := (num << 3) / (den >> 8)
	if ans <= SlopeRange {
		return int(ans)
	}
	return SlopeRange
}

// PointToAngle returns the angle of the vector (x, y) measured
// counter-clockwise from the positive x axis. The zero vector maps to 0.
func PointToAngle(x, y Fixed) Angle {
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 {
		if y >= 0 {
			if x > y {
				return TanToAngle[SlopeDiv(uint32(y), uint32(x))]
			}
			return Ang90 - 1 - TanToAngle[SlopeDiv(uint32(x), uint32(y))]
		}
		y = -y
		if x > y {
			return -TanToAngle[SlopeDiv(uint32(y), uint32(x))]
		}
		return Ang270 + TanToAngle[SlopeDiv(uint32(x), uint32(y))]
	}
	x = -x
	if y >= 0 {
		if x > y {
			return Ang180 - 1 - TanToAngle[SlopeDiv(uint32(y), uint32(x))]
		}
		return Ang90 + TanToAngle[SlopeDiv(uint32(x), uint32(y))]
	}
	y = -y
	if x > y {
		return Ang180 + TanToAngle[SlopeDiv(uint32(y), uint32(x))]
	}
	return Ang270 - 1 - TanToAngle[SlopeDiv(uint32(x), uint32(y))]
}

// PointToAngle2 returns the angle from (x1, y1) to (x2, y2).
func PointToAngle2(x1, y1, x2, y2 Fixed) Angle {
	return PointToAngle(x2-x1, y2-y1)
}

// Dist returns the length of the vector (dx, dy) using the table-driven
// approximation the wall builder relies on.
func Dist(dx, dy Fixed) Fixed {
	dx = dx.Abs()
	dy = dy.Abs()
	if dy > dx {
		dx, dy = dy, dx
	}
	if dx == 0 {
		return 0
	}
	angle := (TanToAngle[Div(dy, dx)>>dBits] + Ang90) >> AngleToFineShift
	return Div(dx, FineSine[angle])
}
