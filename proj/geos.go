package proj

import (
	"math"

	"github.com/pkg/errors"
)

// Sweep is the axis of the outer gimbal of the scanning instrument. GOES
// scans with sweep x, Meteosat, Himawari and the PROJ/cartopy default
// with sweep y.
type Sweep string

const (
	SweepX Sweep = "x"
	SweepY Sweep = "y"
)

// DefaultSweep renders the same disc as cartopy's Geostationary CRS.
const DefaultSweep = SweepY

func ParseSweep(s string) (Sweep, error) {
	switch Sweep(s) {
	case SweepX, SweepY:
		return Sweep(s), nil
	case "":
		return DefaultSweep, nil
	}
	return "", errors.Wrapf(ErrProjection, "unknown sweep axis %q, use x or y", s)
}

// Geostationary is the full disc view of a satellite above the equator.
type Geostationary struct {
	Long      float64 // sub-satellite longitude in degrees
	Height    float64 // satellite height above the equator in metres
	Sweep     Sweep
	Ellipsoid Ellipsoid

	long0 float64 // sub-satellite longitude in radians
	h     float64 // distance from the earth centre
	ratio float64 // a²/b²
	e2    float64 // squared eccentricity
}

// NewGeostationary returns the projection for a satellite at long degrees
// and height metres on the GRS80 ellipsoid with the default sweep axis.
func NewGeostationary(long, height float64) (*Geostationary, error) {
	return NewGeostationaryEllipsoid(long, height, DefaultSweep, GRS80)
}

func NewGeostationarySweep(long, height float64, sweep Sweep) (*Geostationary, error) {
	return NewGeostationaryEllipsoid(long, height, sweep, GRS80)
}

func NewGeostationaryEllipsoid(long, height float64, sweep Sweep, ell Ellipsoid) (*Geostationary, error) {
	g := &Geostationary{Long: long, Height: height, Sweep: sweep, Ellipsoid: ell}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.long0 = long * deg
	g.h = height + ell.A
	g.ratio = (ell.A * ell.A) / (ell.B * ell.B)
	g.e2 = 1 - (ell.B*ell.B)/(ell.A*ell.A)
	return g, nil
}

func (g *Geostationary) Validate() error {
	if math.IsNaN(g.Long) || g.Long < -180 || g.Long > 180 {
		return errors.Wrapf(ErrProjection, "sub-satellite longitude %v outside [-180, 180]", g.Long)
	}
	if math.IsNaN(g.Height) || math.IsInf(g.Height, 0) || g.Height <= 0 {
		return errors.Wrapf(ErrProjection, "satellite height %v not positive", g.Height)
	}
	if g.Sweep != SweepX && g.Sweep != SweepY {
		return errors.Wrapf(ErrProjection, "unknown sweep axis %q", g.Sweep)
	}
	ell := g.Ellipsoid
	if !(ell.A > 0) || !(ell.B > 0) || ell.B > ell.A {
		return errors.Wrapf(ErrProjection, "ellipsoid a=%v b=%v", ell.A, ell.B)
	}
	return nil
}

// LimbAngle returns the horizontal scanning angle of the visible earth
// edge on the equator.
func (g *Geostationary) LimbAngle() float64 {
	return math.Asin(g.Ellipsoid.A / g.h)
}

// Forward converts latitude/longitude to scanning angles. Points on the
// far side of the earth are not visible.
func (g *Geostationary) Forward(lat, long float64) (x, y float64, ok bool) {
	if lat < -90 || lat > 90 || math.IsNaN(lat) || math.IsNaN(long) {
		return math.NaN(), math.NaN(), false
	}
	b := g.Ellipsoid.B

	// geocentric latitude
	phi := math.Atan(math.Tan(lat*deg) / g.ratio)
	cosPhi := math.Cos(phi)
	rc := b / math.Sqrt(1-g.e2*cosPhi*cosPhi)

	dLong := long*deg - g.long0
	sx := g.h - rc*cosPhi*math.Cos(dLong)
	sy := -rc * cosPhi * math.Sin(dLong)
	sz := rc * math.Sin(phi)

	if g.h*(g.h-sx) < sy*sy+g.ratio*sz*sz {
		return math.NaN(), math.NaN(), false
	}

	if g.Sweep == SweepX {
		x = math.Atan(-sy / math.Hypot(sx, sz))
		y = math.Atan(sz / sx)
	} else {
		x = math.Atan(-sy / sx)
		y = math.Atan(sz / math.Hypot(sx, sy))
	}
	return x, y, true
}

// Inverse converts scanning angles to latitude/longitude. Lines of sight
// that miss the earth are not visible.
func (g *Geostationary) Inverse(x, y float64) (lat, long float64, ok bool) {
	a := g.Ellipsoid.A

	// line of sight towards the earth centre, scaled to unit length on
	// the satellite axis
	var vy, vz float64
	if g.Sweep == SweepX {
		vz = math.Tan(y)
		vy = math.Tan(x) * math.Hypot(1, vz)
	} else {
		vy = math.Tan(x)
		vz = math.Tan(y) * math.Hypot(1, vy)
	}

	qa := 1 + vy*vy + g.ratio*vz*vz
	qb := -2 * g.h
	qc := g.h*g.h - a*a

	discr := qb*qb - 4*qa*qc
	if discr < 0 || math.IsNaN(discr) {
		return math.NaN(), math.NaN(), false
	}
	k := (-qb - math.Sqrt(discr)) / (2 * qa)

	px := g.h - k
	py := k * vy
	pz := k * vz

	lat = math.Atan(g.ratio*pz/math.Hypot(px, py)) * rad
	long = NormalizeLong((g.long0 + math.Atan2(py, px)) * rad)
	return lat, long, true
}

func (g *Geostationary) Close() error { return nil }
