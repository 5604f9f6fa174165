package cellr

import "sync"

// Cells of a face are ordered along a Hilbert curve, walked four levels at
// a time through two precomputed tables. lookupPos maps packed IJ bits and
// a curve orientation to the position along the curve, lookupIJ is the
// inverse. Orientation is two bits: swap I and J, and invert both.
const (
	lookupBits = 4
	swapMask   = 0x01
	invertMask = 0x02
)

// posToIJ lists, per orientation, the IJ quadrant visited at each of the
// four curve positions, packed as (i << 1) | j.
var posToIJ = [4][4]uint32{
	{0, 1, 3, 2}, // canonical order
	{0, 2, 3, 1}, // axes swapped
	{3, 2, 0, 1}, // axes inverted
	{3, 1, 0, 2}, // swapped and inverted
}

// posToOrientationMask is the orientation change applied when descending
// into each curve position.
var posToOrientationMask = [4]uint32{swapMask, 0, 0, invertMask | swapMask}

var (
	lookupOnce sync.Once
	lookupPos  [1 << (2*lookupBits + 2)]uint32
	lookupIJ   [1 << (2*lookupBits + 2)]uint32
)

func initLookupTables() {
	lookupOnce.Do(func() {
		buildLookupTables(0, 0, 0, 0, 0, 0)
		buildLookupTables(0, 0, 0, swapMask, 0, swapMask)
		buildLookupTables(0, 0, 0, invertMask, 0, invertMask)
		buildLookupTables(0, 0, 0, swapMask|invertMask, 0, swapMask|invertMask)
	})
}

// buildLookupTables subdivides the curve recursively until lookupBits
// levels are accumulated, then records both mappings for the walked path.
func buildLookupTables(level int, i, j, origOrientation, position, orientation uint32) {
	if level == lookupBits {
		ij := (i << lookupBits) | j
		lookupPos[(ij<<2)|origOrientation] = (position << 2) | orientation
		lookupIJ[(position<<2)|origOrientation] = (ij << 2) | orientation
		return
	}

	level++
	i <<= 1
	j <<= 1
	position <<= 2

	r := posToIJ[orientation]
	for index := uint32(0); index < 4; index++ {
		buildLookupTables(
			level,
			i+(r[index]>>1),
			j+(r[index]&1),
			origOrientation,
			position+index,
			orientation^posToOrientationMask[index],
		)
	}
}
