package pathcfg

import "fmt"

// Change is a dirty record produced by a path mutation. Index addresses the
// segment that starts at point Index, in the segment list as it stood right
// after the mutation that recorded it.
type Change interface {
	SegmentIndex() int
	fmt.Stringer
	isChange()
}

// PositionChanged marks an existing segment whose endpoints moved.
type PositionChanged struct{ Index int }

// Inserted marks a segment that did not exist before the mutation.
type Inserted struct{ Index int }

// Removed marks a segment that no longer exists after the mutation.
type Removed struct{ Index int }

func (c PositionChanged) SegmentIndex() int { return c.Index }
func (c Inserted) SegmentIndex() int        { return c.Index }
func (c Removed) SegmentIndex() int         { return c.Index }

func (c PositionChanged) String() string { return fmt.Sprintf("changed(%d)", c.Index) }
func (c Inserted) String() string        { return fmt.Sprintf("inserted(%d)", c.Index) }
func (c Removed) String() string         { return fmt.Sprintf("removed(%d)", c.Index) }

func (PositionChanged) isChange() {}
func (Inserted) isChange()        {}
func (Removed) isChange()         {}

// IsStructural reports whether c changes the number of segments.
func IsStructural(c Change) bool {
	switch c.(type) {
	case Inserted, Removed:
		return true
	}
	return false
}
