package cellr

import (
	"encoding/json"
	"math"
	"strconv"
)

const degreesPerRadian = 180 / math.Pi

// SurfacePosition pairs the geodetic coordinate of a point with its
// Cartesian realization on the ellipsoid. Angles are in degrees.
type SurfacePosition struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Cartesian Cartesian `json:"cartesian"`
}

// Geometry is the realized shape of a single cell on an ellipsoid. The id
// and the leaf-range bounds are rendered as strings, keeping the uint64
// values exact for consumers without 64-bit integers.
type Geometry struct {
	Token     string             `json:"token"`
	ID        string             `json:"id"`
	Face      int                `json:"face"`
	Level     int                `json:"level"`
	Ellipsoid string             `json:"ellipsoid"`
	RangeMin  string             `json:"range_min"`
	RangeMax  string             `json:"range_max"`
	Center    SurfacePosition    `json:"center"`
	Vertices  [4]SurfacePosition `json:"vertices"`
}

func (g Geometry) String() string {
	jsonBytes, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal Geometry"}`
	}
	return string(jsonBytes)
}

// computeGeometry realizes cell on the ellipsoid: the center and the four
// counterclockwise corners, each as geodetic angles plus the surface
// point. A nil ellipsoid selects WGS84.
func computeGeometry(cell Cell, e *Ellipsoid) Geometry {
	if e == nil {
		e = WGS84
	}

	g := Geometry{
		Token:     cell.Token(),
		ID:        strconv.FormatUint(uint64(cell.ID()), 10),
		Face:      cell.Face(),
		Level:     cell.Level(),
		Ellipsoid: e.ID(),
		RangeMin:  cell.ID().RangeMin().Token(),
		RangeMax:  cell.ID().RangeMax().Token(),
		Center:    realizeDirection(centerDirection(cell.id, cell.level), e),
	}

	for index := range g.Vertices {
		g.Vertices[index] = realizeDirection(vertexDirection(cell.id, cell.level, index), e)
	}

	return g
}

// realizeDirection normalizes a direction, reads it as a unit-sphere
// position and projects it onto the ellipsoid at height zero.
func realizeDirection(direction Cartesian, e *Ellipsoid) SurfacePosition {
	carto := cartographicFromUnitSphere(direction.Normalize())

	return SurfacePosition{
		Longitude: carto.Longitude * degreesPerRadian,
		Latitude:  carto.Latitude * degreesPerRadian,
		Cartesian: e.CartographicToCartesian(carto),
	}
}
