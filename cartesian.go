package cellr

import "math"

// Cartesian is a point or direction in a right-handed Cartesian frame.
// Directions on the unit sphere and surface points on an ellipsoid share
// the type; context decides the interpretation.
type Cartesian struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (c Cartesian) Add(o Cartesian) Cartesian {
	return Cartesian{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c Cartesian) Sub(o Cartesian) Cartesian {
	return Cartesian{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

func (c Cartesian) Scale(s float64) Cartesian {
	return Cartesian{c.X * s, c.Y * s, c.Z * s}
}

func (c Cartesian) Dot(o Cartesian) float64 {
	return c.X*o.X + c.Y*o.Y + c.Z*o.Z
}

func (c Cartesian) Cross(o Cartesian) Cartesian {
	return Cartesian{
		c.Y*o.Z - c.Z*o.Y,
		c.Z*o.X - c.X*o.Z,
		c.X*o.Y - c.Y*o.X,
	}
}

func (c Cartesian) Magnitude() float64 {
	return math.Sqrt(c.Dot(c))
}

// Normalize returns the unit vector pointing the same way. The zero
// vector has no direction and is returned unchanged.
func (c Cartesian) Normalize() Cartesian {
	m := c.Magnitude()
	if m == 0 {
		return c
	}
	return c.Scale(1 / m)
}

// mulComponents multiplies component-wise.
func (c Cartesian) mulComponents(o Cartesian) Cartesian {
	return Cartesian{c.X * o.X, c.Y * o.Y, c.Z * o.Z}
}

// Cartographic is a geodetic position: longitude and latitude in radians,
// height in meters above the ellipsoid surface.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}
