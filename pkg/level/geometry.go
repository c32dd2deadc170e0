package level

import "github.com/taigrr/retroview/pkg/fixed"

// PointOnSide returns 0 when (x, y) is on the front (right) side of the
// node's partition line and 1 when it is on the back. Points on the line
// always resolve the same way, so a camera on a splitter never oscillates.
func PointOnSide(x, y fixed.Fixed, n *Node) int {
	if n.DX == 0 {
		if x <= n.X {
			return b2i(n.DY > 0)
		}
		return b2i(n.DY < 0)
	}
	if n.DY == 0 {
		if y <= n.Y {
			return b2i(n.DX < 0)
		}
		return b2i(n.DX > 0)
	}

	dx := x - n.X
	dy := y - n.Y

	// Opposite signs decide it without a multiply.
	if (n.DY ^ n.DX ^ dx ^ dy) < 0 {
		if (n.DY ^ dx) < 0 {
			return 1
		}
		return 0
	}

	left := fixed.Mul(n.DY>>fixed.FracBits, dx)
	right := fixed.Mul(dy, n.DX>>fixed.FracBits)
	if right < left {
		return 0
	}
	return 1
}

// PointOnSegSide is PointOnSide against the line through a seg.
func PointOnSegSide(x, y fixed.Fixed, s *Seg) int {
	n := Node{X: s.V1.X, Y: s.V1.Y, DX: s.V2.X - s.V1.X, DY: s.V2.Y - s.V1.Y}
	return PointOnSide(x, y, &n)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
