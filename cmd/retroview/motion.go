package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/retroview/pkg/fixed"
	"github.com/taigrr/retroview/pkg/level"
	"github.com/taigrr/retroview/pkg/render"
)

const (
	// Steps taller than this block the player.
	maxStep = 24
	// Gaps lower than this block the player.
	playerHeight = 56
	// Distance kept from walls, in map units.
	playerRadius = 16
)

// Axis is one velocity that springs back to rest when input stops.
type Axis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

// NewAxis creates a critically damped axis.
func NewAxis(fps int) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Update returns the velocity for this frame and decays it toward zero.
func (a *Axis) Update() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	return v
}

// Player moves a viewpoint through a level.
type Player struct {
	View render.Viewpoint
	// EyeHeight is the camera height above the floor.
	EyeHeight fixed.Fixed

	Turn, Forward, Strafe Axis

	lvl *level.Level
	fps int
}

// NewPlayer places a player at (x, y) facing angle degrees.
func NewPlayer(lvl *level.Level, fps int, x, y, eye, angle float64) *Player {
	p := &Player{
		lvl:       lvl,
		fps:       fps,
		EyeHeight: fixed.FromFloat(eye),
		View: render.Viewpoint{
			X:     fixed.FromFloat(x),
			Y:     fixed.FromFloat(y),
			Angle: fixed.AngleFromDegrees(angle),
		},
	}
	p.Reset()
	p.settle()
	return p
}

// Reset stops every motion.
func (p *Player) Reset() {
	p.Turn = NewAxis(p.fps)
	p.Forward = NewAxis(p.fps)
	p.Strafe = NewAxis(p.fps)
}

// Update applies one frame of motion. Turn is in degrees, the others in
// map units.
func (p *Player) Update() {
	p.View.Angle += fixed.AngleFromDegrees(p.Turn.Update())

	forward := fixed.FromFloat(p.Forward.Update())
	right := fixed.FromFloat(p.Strafe.Update())
	if forward == 0 && right == 0 {
		return
	}
	next := p.View.Move(forward, right)
	if p.canStand(next.X, next.Y) {
		p.View = next
		p.settle()
	}
}

// settle puts the eye at EyeHeight above the floor underneath it.
func (p *Player) settle() {
	ss := p.lvl.PointInSubsector(p.View.X, p.View.Y)
	p.View.Z = ss.Sector.FloorHeight + p.EyeHeight
}

// canStand reports whether the player fits at (x, y): every probe point
// around it lies inside a subsector whose floor is within a step of the
// current one and whose gap is tall enough.
func (p *Player) canStand(x, y fixed.Fixed) bool {
	cur := p.lvl.PointInSubsector(p.View.X, p.View.Y).Sector
	r := fixed.FromInt(playerRadius)
	probes := [...][2]fixed.Fixed{{0, 0}, {r, r}, {r, -r}, {-r, r}, {-r, -r}}
	for _, d := range probes {
		px, py := x+d[0], y+d[1]
		ss := p.lvl.PointInSubsector(px, py)
		if !inside(p.lvl, ss, px, py) {
			return false
		}
		sec := ss.Sector
		if sec.FloorHeight-cur.FloorHeight > fixed.FromInt(maxStep) {
			return false
		}
		if sec.CeilingHeight-sec.FloorHeight < fixed.FromInt(playerHeight) {
			return false
		}
	}
	return true
}

// inside reports whether (x, y) is on the front side of every seg of ss.
func inside(lvl *level.Level, ss *level.Subsector, x, y fixed.Fixed) bool {
	for i := range ss.NumSegs {
		if level.PointOnSegSide(x, y, &lvl.Segs[ss.FirstSeg+i]) != 0 {
			return false
		}
	}
	return true
}
