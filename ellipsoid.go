package cellr

import (
	"errors"
	"math"

	"github.com/segmentio/ksuid"
)

// Ellipsoid is the reference surface cells are realized on, described by
// its three semi-axes. The zero value is unusable; construct through
// NewEllipsoid or use one of the predefined surfaces.
type Ellipsoid struct {
	id           string
	radii        Cartesian
	radiiSquared Cartesian
}

// WGS84 is the standard terrestrial reference ellipsoid.
var WGS84 = mustEllipsoid("wgs84", 6378137.0, 6378137.0, 6356752.3142451793)

// UnitSphere has all semi-axes at one. On it geodetic coordinates
// coincide with their spherical counterparts, which makes it the surface
// of choice for tests and pure direction work.
var UnitSphere = mustEllipsoid("unit", 1, 1, 1)

// NewEllipsoid builds an ellipsoid from its semi-axes in meters. Each
// custom ellipsoid carries a generated id, so geometry realized on
// distinct instances is never conflated in caches.
func NewEllipsoid(x, y, z float64) (*Ellipsoid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.New("ellipsoid semi-axes must be positive")
	}

	return &Ellipsoid{
		id:           ksuid.New().String(),
		radii:        Cartesian{x, y, z},
		radiiSquared: Cartesian{x * x, y * y, z * z},
	}, nil
}

func mustEllipsoid(id string, x, y, z float64) *Ellipsoid {
	e, err := NewEllipsoid(x, y, z)
	if err != nil {
		panic(err)
	}
	e.id = id
	return e
}

// ID returns the identifier the ellipsoid contributes to cache keys.
func (e *Ellipsoid) ID() string {
	return e.id
}

// Radii returns the semi-axes in meters.
func (e *Ellipsoid) Radii() Cartesian {
	return e.radii
}

// CartographicToCartesian projects a geodetic position onto Cartesian
// coordinates. The surface point is found by scaling the geodetic surface
// normal against the squared radii, then the height is applied along the
// normal.
func (e *Ellipsoid) CartographicToCartesian(c Cartographic) Cartesian {
	n := geodeticSurfaceNormal(c)
	k := e.radiiSquared.mulComponents(n)
	gamma := math.Sqrt(n.Dot(k))

	return k.Scale(1 / gamma).Add(n.Scale(c.Height))
}

// geodeticSurfaceNormal is the unit normal of the ellipsoid surface at
// the given geodetic position.
func geodeticSurfaceNormal(c Cartographic) Cartesian {
	cosLatitude := math.Cos(c.Latitude)
	return Cartesian{
		cosLatitude * math.Cos(c.Longitude),
		cosLatitude * math.Sin(c.Longitude),
		math.Sin(c.Latitude),
	}
}

// cartographicFromUnitSphere reads a unit direction as a position on the
// unit sphere, where geocentric and geodetic latitude coincide.
func cartographicFromUnitSphere(direction Cartesian) Cartographic {
	return Cartographic{
		Longitude: math.Atan2(direction.Y, direction.X),
		Latitude:  math.Asin(math.Max(-1, math.Min(1, direction.Z))),
	}
}
