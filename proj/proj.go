// Package proj implements the geostationary (full disc) projection and the
// equirectangular raster geometry used to reproject world images.
//
// Geostationary coordinates are scanning angles in radians as defined by
// the GOES-R Product User Guide (PUG L1b vol. 3, section 5.1.2.8.1): x grows
// towards east, y towards north, and (0, 0) is the sub-satellite point.
// Geographic coordinates are latitude/longitude in degrees.
package proj

import (
	"math"

	"github.com/pkg/errors"
)

// ErrProjection is the cause of all errors for invalid or degenerate
// projection parameters.
var ErrProjection = errors.New("invalid projection")

// DefaultHeight is the geostationary altitude above the equator in metres.
const DefaultHeight = 35786000.0

const (
	deg = math.Pi / 180.0
	rad = 180.0 / math.Pi
)

// Ellipsoid describes the reference ellipsoid by its semi axes in metres.
type Ellipsoid struct {
	A float64 // equatorial radius
	B float64 // polar radius
}

// GRS80 is the ellipsoid of the GOES-R fixed grid.
var GRS80 = Ellipsoid{A: 6378137, B: 6356752.31414}

// Transformer converts between geographic coordinates and geostationary
// scanning angles. ok is false for points that are not visible from the
// satellite.
type Transformer interface {
	Forward(lat, long float64) (x, y float64, ok bool)
	Inverse(x, y float64) (lat, long float64, ok bool)
	Close() error
}

// NormalizeLong wraps long (degrees) into [-180, 180).
func NormalizeLong(long float64) float64 {
	long = math.Mod(long+180, 360)
	if long < 0 {
		long += 360
	}
	return long - 180
}
