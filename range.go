package cellr

import "fmt"

const (
	indexRangeMin = 0
	indexRangeMax = 1
)

// CellRange is an inclusive span of leaf cell ids. Because the Hilbert
// curve keeps every descendant of a cell between the cell's extreme
// leaves, containment checks reduce to two comparisons on the range.
type CellRange [2]CellID

func NewCellRange(minID, maxID CellID) CellRange {
	var cr CellRange
	cr[indexRangeMin] = minID
	cr[indexRangeMax] = maxID
	return cr
}

func (cr CellRange) Min() CellID {
	return cr[indexRangeMin]
}

func (cr CellRange) Max() CellID {
	return cr[indexRangeMax]
}

func (cr CellRange) Validate() error {
	if cr.Min() > cr.Max() {
		return fmt.Errorf("range min %d above max %d", uint64(cr.Min()), uint64(cr.Max()))
	}
	return nil
}

// Contains reports whether id falls inside the range.
func (cr CellRange) Contains(id CellID) bool {
	return id >= cr.Min() && id <= cr.Max()
}

// RangeMin returns the smallest leaf id contained in the cell: the
// sentinel bit spread down to the lowest position.
func (id CellID) RangeMin() CellID {
	return CellID(uint64(id) - (lowestSetBit(uint64(id)) - 1))
}

// RangeMax returns the largest leaf id contained in the cell.
func (id CellID) RangeMax() CellID {
	return CellID(uint64(id) + (lowestSetBit(uint64(id)) - 1))
}

// Contains reports whether other lies within the cell's leaf span. Any
// cell contains itself.
func (id CellID) Contains(other CellID) bool {
	return other >= id.RangeMin() && other <= id.RangeMax()
}
