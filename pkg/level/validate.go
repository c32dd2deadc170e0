package level

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/taigrr/retroview/pkg/fixed"
)

// IntegrityError describes a structural fault in level data.
type IntegrityError struct {
	Kind   string // "node", "subsector", "seg", "line"
	Index  int
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("level: %s %d: %s", e.Kind, e.Index, e.Reason)
}

func fault(kind string, index int, format string, args ...any) error {
	return errors.WithStack(&IntegrityError{
		Kind:   kind,
		Index:  index,
		Reason: fmt.Sprintf(format, args...),
	})
}

// Validate checks the references the renderer follows without bounds
// checks of its own. A level that passes can be walked from any viewpoint
// without indexing out of range or looping.
func (l *Level) Validate() error {
	if len(l.Subsectors) == 0 {
		return errors.New("level: no subsectors")
	}

	for i := range l.Lines {
		ln := &l.Lines[i]
		if ln.V1 == nil || ln.V2 == nil {
			return fault("line", i, "missing vertex")
		}
		for s, side := range ln.Sides {
			if side == -1 {
				if s == 0 {
					return fault("line", i, "missing front side")
				}
				continue
			}
			if side < 0 || side >= len(l.Sides) {
				return fault("line", i, "side %d out of range", side)
			}
		}
		if ln.Flags.Has(TwoSided) && ln.Sides[1] == -1 {
			return fault("line", i, "two-sided without a back side")
		}
	}

	for i := range l.Segs {
		sg := &l.Segs[i]
		switch {
		case sg.V1 == nil || sg.V2 == nil:
			return fault("seg", i, "missing vertex")
		case sg.Side == nil || sg.Line == nil:
			return fault("seg", i, "missing side or line")
		case sg.FrontSector == nil:
			return fault("seg", i, "missing front sector")
		}
	}

	for i, ss := range l.Subsectors {
		if ss.Sector == nil {
			return fault("subsector", i, "missing sector")
		}
		if ss.NumSegs <= 0 || ss.FirstSeg < 0 || ss.FirstSeg+ss.NumSegs > len(l.Segs) {
			return fault("subsector", i, "segs [%d,+%d) out of range", ss.FirstSeg, ss.NumSegs)
		}
	}

	for i := range l.Nodes {
		n := &l.Nodes[i]
		if n.DX == 0 && n.DY == 0 {
			return fault("node", i, "zero-length partition")
		}
		for s, c := range n.Children {
			if c.IsSubsector() {
				if c.Index() >= len(l.Subsectors) {
					return fault("node", i, "child %d: subsector %d out of range", s, c.Index())
				}
			} else if c.Index() >= i {
				// Children precede their parent, which also rules out cycles.
				return fault("node", i, "child %d: node %d does not precede its parent", s, c.Index())
			}
			b := n.BBox[s]
			if b[fixed.BoxTop] < b[fixed.BoxBottom] || b[fixed.BoxRight] < b[fixed.BoxLeft] {
				return fault("node", i, "child %d: degenerate bounding box", s)
			}
		}
	}
	return nil
}
