package cellr

const (
	// MaxLevel is the deepest subdivision level. Level 0 is a whole cube
	// face, level 30 a leaf cell.
	MaxLevel = 30

	// NumFaces is the number of cube faces the sphere is projected onto.
	NumFaces = 6

	positionBits = 2*MaxLevel + 1

	// limitIJ is the leaf-grid extent per axis, maxSiTi the extent of the
	// doubled cell-space grid.
	limitIJ = 1 << MaxLevel
	maxSiTi = 1 << (MaxLevel + 1)

	// validLSBMask has a bit set at every even offset a sentinel bit may
	// occupy, one per level.
	validLSBMask uint64 = 0x1555555555555555
)

// lowestSetBit isolates the lowest set bit of id, the sentinel bit for a
// well-formed cell id.
func lowestSetBit(id uint64) uint64 {
	return id & -id
}

// lsbForLevel returns the sentinel bit of a cell at the given level.
func lsbForLevel(level int) uint64 {
	return 1 << (2 * (MaxLevel - level))
}
