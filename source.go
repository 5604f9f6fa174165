package cellr

import (
	"fmt"

	"github.com/brunomvsouza/singleflight"
)

// SourceConfig holds customization options for a Source.
type SourceConfig struct {
	// ellipsoid is the surface geometry is realized on.
	ellipsoid *Ellipsoid
	// cache stores realized geometry between lookups.
	cache Cacher
}

// SourceConfigOption is a functional option for configuring a Source.
type SourceConfigOption = func(config *SourceConfig)

// WithEllipsoid sets the reference ellipsoid on the SourceConfig. A nil
// ellipsoid is ignored and the default of WGS84 kept.
func WithEllipsoid(e *Ellipsoid) SourceConfigOption {
	return func(config *SourceConfig) {
		if e != nil {
			config.ellipsoid = e
		}
	}
}

// WithCache sets a custom geometry cache on the SourceConfig.
func WithCache(cache Cacher) SourceConfigOption {
	return func(config *SourceConfig) {
		config.cache = cache
	}
}

// Source realizes cell geometry on demand, caching results and collapsing
// concurrent realizations of the same cell with singleflight.
type Source struct {
	ellipsoid *Ellipsoid
	cache     Cacher
	group     singleflight.Group[string, Geometry]
}

// NewSource initializes a Source, optionally applying
// SourceConfigOptions. Unless overridden it realizes geometry on WGS84
// and caches in a ristretto cache with default sizing.
func NewSource(options ...SourceConfigOption) (*Source, error) {
	config := &SourceConfig{
		ellipsoid: WGS84,
	}
	// Apply user options
	for _, o := range options {
		o(config)
	}

	if config.cache == nil {
		cache, err := NewRistrettoCache()
		if err != nil {
			return nil, err
		}
		config.cache = cache
	}

	return &Source{
		ellipsoid: config.ellipsoid,
		cache:     config.cache,
	}, nil
}

// Geometry returns the realized geometry for cell on the source's
// ellipsoid. Results are cached; concurrent calls for the same cell are
// collapsed into a single computation.
func (s *Source) Geometry(cell Cell) (Geometry, error) {
	key := buildGeometryKey(s.ellipsoid.ID(), cell.ID())

	if g, ok := s.cache.Get(key); ok {
		instrumentGeometryCacheHit()
		return g, nil
	}
	instrumentGeometryCacheMiss()

	g, err, _ := s.group.Do(key, func() (Geometry, error) {
		g := computeGeometry(cell, s.ellipsoid)
		instrumentGeometryComputed(g.Level)

		// NOTE: even if it fails once, eventually it succeeds
		// ristretto is eventually consistent
		_ = s.cache.Set(key, g)

		return g, nil
	})
	if err != nil {
		return Geometry{}, fmt.Errorf("realizing geometry with singleflight: %w", err)
	}

	return g, nil
}

// GeometryByToken resolves a hexadecimal token and returns the realized
// geometry for the cell it names.
func (s *Source) GeometryByToken(token string) (Geometry, error) {
	cell, err := FromToken(token)
	if err != nil {
		return Geometry{}, err
	}

	return s.Geometry(cell)
}

// Ellipsoid returns the surface the source realizes geometry on.
func (s *Source) Ellipsoid() *Ellipsoid {
	return s.ellipsoid
}

// Flush drops all cached geometry.
func (s *Source) Flush() {
	s.cache.Clear()
}

// Close the source and its dependencies.
func (s *Source) Close() {
	s.cache.Close()
}
