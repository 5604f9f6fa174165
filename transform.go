package cellr

// The transform pipeline moves between the discrete cell space and
// directions on the unit sphere:
//
//	CellID <-> (face, i, j) -> (face, si, ti) -> (s, t) -> (u, v) -> (x, y, z)
//
// I and J are leaf-grid coordinates on a face, Si and Ti the same grid
// doubled so cell centers land on integers. S and T normalize to [0, 1],
// U and V warp to [-1, 1] on the cube face to even out cell area, and
// XYZ is the unnormalized direction through the face point.

// cellIDToFaceIJ decodes the face and leaf-grid coordinates the id's
// position bits lead to, consuming the sentinel bit as part of the path.
func cellIDToFaceIJ(id CellID) (face int, i, j uint32) {
	initLookupTables()

	face = id.Face()
	state := uint32(face) & swapMask

	for k := 7; k >= 0; k-- {
		levels := lookupBits
		if k == 7 {
			// the top chunk holds the two levels left over after
			// seven full chunks
			levels = MaxLevel - 7*lookupBits
		}

		mask := uint32(1)<<(2*levels) - 1
		state += (uint32(uint64(id)>>(k*2*lookupBits+1)) & mask) << 2
		state = lookupIJ[state]

		offset := k * lookupBits
		i += (state >> (lookupBits + 2)) << offset
		j += ((state >> 2) & (uint32(1)<<lookupBits - 1)) << offset

		state &= swapMask | invertMask
	}

	return face, i, j
}

// faceIJToCellID encodes leaf-grid coordinates into the leaf cell id that
// contains them.
func faceIJToCellID(face int, i, j uint32) CellID {
	initLookupTables()

	n := uint64(face) << (positionBits - 1)
	state := uint32(face) & swapMask

	for k := 7; k >= 0; k-- {
		mask := uint32(1)<<lookupBits - 1
		state += ((i >> (k * lookupBits)) & mask) << (lookupBits + 2)
		state += ((j >> (k * lookupBits)) & mask) << 2
		state = lookupPos[state]

		n |= uint64(state>>2) << (k * 2 * lookupBits)

		state &= swapMask | invertMask
	}

	return CellID(n<<1 | 1)
}

// faceIJLevelToCellID encodes leaf-grid coordinates into the id of the
// cell at the given level that contains them.
func faceIJLevelToCellID(face int, i, j uint32, level int) CellID {
	return faceIJToCellID(face, i, j).parentAtLevel(level)
}

// cellIDToFaceSiTi returns the doubled-grid coordinates of the cell
// center. A leaf center sits half a leaf above the decoded corner. For
// coarser cells the sentinel-guided decode lands on a leaf corner that is
// either exactly the cell center or a full leaf below it, disambiguated
// by the parity of I against the id's curve position.
func cellIDToFaceSiTi(id CellID, level int) (face int, si, ti uint32) {
	face, i, j := cellIDToFaceIJ(id)

	var correction uint32
	switch {
	case level == MaxLevel:
		correction = 1
	case (i^uint32(uint64(id)>>2))&1 == 1:
		correction = 2
	}

	return face, (i << 1) + correction, (j << 1) + correction
}

// siTiToST maps doubled-grid coordinates to the unit interval.
func siTiToST(siTi uint32) float64 {
	return float64(siTi) / maxSiTi
}

// ijToSTMin maps a leaf-grid coordinate to the low edge of its unit
// interval span.
func ijToSTMin(ij uint32) float64 {
	return float64(ij) / limitIJ
}

// stToUV warps a coordinate on the unit interval to [-1, 1] on the cube
// face. The quadratic warp compensates for the projective distortion of
// the cube so cells end up close to equal area on the sphere.
func stToUV(st float64) float64 {
	if st >= 0.5 {
		return (1.0 / 3.0) * (4*st*st - 1)
	}
	return (1.0 / 3.0) * (1 - 4*(1-st)*(1-st))
}

// faceUVToXYZ maps warped face coordinates to the unnormalized direction
// through that point of the face.
func faceUVToXYZ(face int, u, v float64) Cartesian {
	switch face {
	case 0:
		return Cartesian{1, u, v}
	case 1:
		return Cartesian{-u, 1, v}
	case 2:
		return Cartesian{-u, -v, 1}
	case 3:
		return Cartesian{-1, -v, -u}
	case 4:
		return Cartesian{v, -1, -u}
	default:
		return Cartesian{v, u, -1}
	}
}

// sizeIJ is the leaf-grid edge length of a cell at the given level.
func sizeIJ(level int) uint32 {
	return 1 << (MaxLevel - level)
}

// ijLevelToBoundUV computes the UV rectangle covered by the cell at the
// given level containing the leaf coordinates. Index 0 holds the U
// interval, index 1 the V interval, each as [low, high].
func ijLevelToBoundUV(i, j uint32, level int) [2][2]float64 {
	var bound [2][2]float64

	cellSize := sizeIJ(level)
	for d, ij := range [2]uint32{i, j} {
		lo := ij &^ (cellSize - 1)
		hi := lo + cellSize
		bound[d][0] = stToUV(ijToSTMin(lo))
		bound[d][1] = stToUV(ijToSTMin(hi))
	}

	return bound
}

// centerDirection returns the unnormalized direction through the cell
// center.
func centerDirection(id CellID, level int) Cartesian {
	face, si, ti := cellIDToFaceSiTi(id, level)
	return faceUVToXYZ(face, stToUV(siTiToST(si)), stToUV(siTiToST(ti)))
}

// vertexDirection returns the unnormalized direction through the cell
// corner at index, counterclockwise from the low UV corner.
func vertexDirection(id CellID, level, index int) Cartesian {
	face, i, j := cellIDToFaceIJ(id)
	bound := ijLevelToBoundUV(i, j, level)

	y := (index >> 1) & 1
	x := (index & 1) ^ y

	return faceUVToXYZ(face, bound[0][x], bound[1][y])
}
