package cellr

import "fmt"

// Cell pairs a validated cell id with its subdivision level. Constructing
// a Cell is the validation boundary: every Cell in circulation wraps a
// well-formed id, so navigation and geometry never re-derive the level.
type Cell struct {
	id    CellID
	level int
}

// NewCell validates id and wraps it into a Cell.
func NewCell(id CellID) (Cell, error) {
	level, err := id.Level()
	if err != nil {
		return Cell{}, err
	}

	return Cell{id: id, level: level}, nil
}

// FromToken decodes a hexadecimal token into a Cell.
func FromToken(token string) (Cell, error) {
	id, err := ParseToken(token)
	if err != nil {
		return Cell{}, err
	}

	return NewCell(id)
}

// ID returns the 64-bit cell id.
func (c Cell) ID() CellID {
	return c.id
}

// Token returns the compact hexadecimal form of the cell id.
func (c Cell) Token() string {
	return c.id.Token()
}

// Level returns the subdivision level, 0 for a face root and 30 for a
// leaf.
func (c Cell) Level() int {
	return c.level
}

// Face returns the cube face the cell lives on.
func (c Cell) Face() int {
	return c.id.Face()
}

// IsLeaf reports whether the cell is at the deepest level.
func (c Cell) IsLeaf() bool {
	return c.level == MaxLevel
}

// Child returns the cell one level deeper at child position index, in
// Hilbert-curve order. Leaves have no children.
func (c Cell) Child(index int) (Cell, error) {
	if index < 0 || index > 3 {
		return Cell{}, fmt.Errorf("child %d: %w", index, ErrIndexRange)
	}

	if c.IsLeaf() {
		return Cell{}, ErrLeafCell
	}

	// Drop the sentinel two bits down and re-add it shifted into the
	// child's quadrant. Written as a single unsigned expression, the
	// sentinel guarantees no wrap.
	lsb := lowestSetBit(uint64(c.id))
	id := uint64(c.id) - lsb + uint64(2*index+1)*(lsb>>2)

	return Cell{id: CellID(id), level: c.level + 1}, nil
}

// Parent returns the cell one level up. Face roots have no parent.
func (c Cell) Parent() (Cell, error) {
	if c.level == 0 {
		return Cell{}, ErrRootCell
	}

	lsb := lowestSetBit(uint64(c.id)) << 2
	id := uint64(c.id)&-lsb | lsb

	return Cell{id: CellID(id), level: c.level - 1}, nil
}

// ParentAtLevel returns the ancestor at the given level. The cell's own
// level is permitted and returns the cell unchanged; face roots have no
// ancestors at any level.
func (c Cell) ParentAtLevel(level int) (Cell, error) {
	if c.level == 0 {
		return Cell{}, ErrRootCell
	}

	if level < 0 || level > c.level {
		return Cell{}, fmt.Errorf("level %d for a level %d cell: %w", level, c.level, ErrLevelRange)
	}

	return Cell{id: c.id.parentAtLevel(level), level: level}, nil
}

// LeafRange returns the inclusive span of leaf ids contained in the cell.
func (c Cell) LeafRange() CellRange {
	return CellRange{c.id.RangeMin(), c.id.RangeMax()}
}

// Contains reports whether other lies within the cell, itself included.
func (c Cell) Contains(other Cell) bool {
	return c.id.Contains(other.id)
}

// Center returns the cell center projected onto the ellipsoid surface. A
// nil ellipsoid selects WGS84.
func (c Cell) Center(e *Ellipsoid) Cartesian {
	return surfacePoint(centerDirection(c.id, c.level), e)
}

// Vertex returns the cell corner at index projected onto the ellipsoid
// surface. Corners wind counterclockwise seen from outside the sphere. A
// nil ellipsoid selects WGS84.
func (c Cell) Vertex(index int, e *Ellipsoid) (Cartesian, error) {
	if index < 0 || index > 3 {
		return Cartesian{}, fmt.Errorf("vertex %d: %w", index, ErrIndexRange)
	}

	return surfacePoint(vertexDirection(c.id, c.level, index), e), nil
}

// surfacePoint normalizes a direction, reads it as a position on the unit
// sphere and reprojects that position onto the ellipsoid at height zero.
func surfacePoint(direction Cartesian, e *Ellipsoid) Cartesian {
	if e == nil {
		e = WGS84
	}

	return e.CartographicToCartesian(cartographicFromUnitSphere(direction.Normalize()))
}
