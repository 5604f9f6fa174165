// Package cellr indexes points on a sphere with a hierarchy of 64-bit cell
// identifiers. The sphere is projected onto the six faces of a cube, each
// face is subdivided as a quadtree down to thirty levels, and the cells of
// a face are ordered along a Hilbert curve so that ids close in value are
// close on the sphere. Cells can be navigated structurally (children,
// parents, leaf ranges) without touching geometry, and realized as points
// on a reference ellipsoid when geometry is needed.
package cellr

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidCellID marks a 64-bit value that is not a well-formed
	// cell id.
	ErrInvalidCellID = errors.New("invalid cell id")
	// ErrInvalidToken marks a string that does not decode to a valid
	// cell id.
	ErrInvalidToken = errors.New("invalid cell token")

	ErrFaceRange     = errors.New("face outside [0, 5]")
	ErrLevelRange    = errors.New("level outside [0, 30]")
	ErrPositionRange = errors.New("position outside face extent")
	ErrIndexRange    = errors.New("index outside [0, 3]")

	ErrLeafCell = errors.New("leaf cells have no children")
	ErrRootCell = errors.New("root cells have no parent")
)

// CellID identifies a single cell of the spherical quadtree. The top three
// bits select the cube face, the next 2*level bits the Hilbert-curve
// position on that face, followed by a single sentinel one bit and zero
// padding. The sentinel both delimits the position bits and marks the
// center of the cell in leaf coordinates.
type CellID uint64

// FromFacePositionLevel assembles a cell id from a cube face, a
// Hilbert-curve position and a subdivision level. The position is
// interpreted relative to the given level and must be below 4^level.
func FromFacePositionLevel(face int, position uint64, level int) (CellID, error) {
	if face < 0 || face >= NumFaces {
		return 0, fmt.Errorf("face %d: %w", face, ErrFaceRange)
	}

	if level < 0 || level > MaxLevel {
		return 0, fmt.Errorf("level %d: %w", level, ErrLevelRange)
	}

	if position >= uint64(1)<<(2*level) {
		return 0, fmt.Errorf("position %d at level %d: %w", position, level, ErrPositionRange)
	}

	id := uint64(face)<<positionBits |
		position<<(2*(MaxLevel-level)+1) |
		lsbForLevel(level)

	return CellID(id), nil
}

// Valid reports whether id is a well-formed cell id: a face below six and
// a sentinel bit at one of the canonical even offsets.
func (id CellID) Valid() bool {
	if id == 0 {
		return false
	}

	if id.Face() >= NumFaces {
		return false
	}

	return lowestSetBit(uint64(id))&validLSBMask != 0
}

// Face returns the cube face of the cell, in [0, 5] for valid ids.
func (id CellID) Face() int {
	return int(uint64(id) >> positionBits)
}

// Level derives the subdivision level from the position of the sentinel
// bit. It fails on malformed ids, where no sentinel can be located.
func (id CellID) Level() (int, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%d: %w", uint64(id), ErrInvalidCellID)
	}

	return MaxLevel - bits.TrailingZeros64(uint64(id))/2, nil
}

// parentAtLevel rewrites id to its ancestor at the given level by moving
// the sentinel bit up and clearing everything below it. The caller is
// responsible for range-checking level.
func (id CellID) parentAtLevel(level int) CellID {
	lsb := lsbForLevel(level)
	return CellID(uint64(id)&-lsb | lsb)
}
