package proj

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestForwardGOESRFixedGrid(t *testing.T) {
	// sample calculation of the GOES-R PUG for GOES-East at 75°W
	g, err := NewGeostationarySweep(-75.0, 35786023.0, SweepX)
	if err != nil {
		t.Fatal(err)
	}
	x, y, ok := g.Forward(33.846162, -84.690932)
	if !ok {
		t.Fatal("point not visible")
	}
	if math.Abs(x-(-0.024052)) > 1e-6 || math.Abs(y-0.095340) > 1e-6 {
		t.Fatalf("%v %v", x, y)
	}
}

func TestInverseGOESRFixedGrid(t *testing.T) {
	g, err := NewGeostationarySweep(-75.0, 35786023.0, SweepX)
	if err != nil {
		t.Fatal(err)
	}
	lat, long, ok := g.Inverse(-0.024052, 0.095340)
	if !ok {
		t.Fatal("point not visible")
	}
	if math.Abs(lat-33.846162) > 2e-3 || math.Abs(long-(-84.690932)) > 2e-3 {
		t.Fatalf("%v %v", lat, long)
	}
}

func TestSubSatellitePoint(t *testing.T) {
	for _, long := range []float64{-180, -137.2, -75.2, 0, 128.2, 140.7, 180} {
		g, err := NewGeostationary(long, DefaultHeight)
		if err != nil {
			t.Fatal(err)
		}
		x, y, ok := g.Forward(0, long)
		if !ok || math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 {
			t.Errorf("forward %v: %v %v %v", long, x, y, ok)
		}
		lat, l, ok := g.Inverse(0, 0)
		if !ok || math.Abs(lat) > 1e-9 || math.Abs(NormalizeLong(l-long)) > 1e-9 {
			t.Errorf("inverse %v: %v %v %v", long, lat, l, ok)
		}
	}
}

var roundTripPoints = []struct {
	lat, long float64
}{
	{0, -137.2},
	{21.877, -159.671},
	{-38.729, 175.914},
	{-0.449, -91.392},
	{60, -137.2},
	{-45, -100},
	{45, -170},
}

func TestRoundTrip(t *testing.T) {
	for _, sweep := range []Sweep{SweepX, SweepY} {
		g, err := NewGeostationarySweep(-137.2, DefaultHeight, sweep)
		if err != nil {
			t.Fatal(err)
		}
		for _, tt := range roundTripPoints {
			x, y, ok := g.Forward(tt.lat, tt.long)
			if !ok {
				t.Errorf("sweep %s: %v not visible", sweep, tt)
				continue
			}
			lat, long, ok := g.Inverse(x, y)
			if !ok {
				t.Errorf("sweep %s: %v inverse not visible", sweep, tt)
				continue
			}
			if math.Abs(lat-tt.lat) > 1e-7 || math.Abs(NormalizeLong(long-tt.long)) > 1e-7 {
				t.Errorf("sweep %s: %v: got %v %v", sweep, tt, lat, long)
			}
		}
	}
}

func TestSweepAxes(t *testing.T) {
	gx, err := NewGeostationarySweep(-137.2, DefaultHeight, SweepX)
	if err != nil {
		t.Fatal(err)
	}
	gy, err := NewGeostationarySweep(-137.2, DefaultHeight, SweepY)
	if err != nil {
		t.Fatal(err)
	}
	if g, _ := NewGeostationary(-137.2, DefaultHeight); g.Sweep != DefaultSweep || DefaultSweep != SweepY {
		t.Errorf("unexpected default sweep %q", g.Sweep)
	}

	// both sweeps agree on the equator and the central meridian
	for _, p := range [][2]float64{{0, -120}, {0, -160}, {40, -137.2}, {-60, -137.2}} {
		x1, y1, _ := gx.Forward(p[0], p[1])
		x2, y2, _ := gy.Forward(p[0], p[1])
		if math.Abs(x1-x2) > 1e-12 || math.Abs(y1-y2) > 1e-12 {
			t.Errorf("%v: x %v %v, y %v %v", p, x1, x2, y1, y2)
		}
	}

	// off the axes they differ by several pixels of a 7500 px disc
	grid := FullDisc(7500, gx)
	x1, y1, _ := gx.Forward(45, -170)
	x2, y2, _ := gy.Forward(45, -170)
	px1, py1 := grid.Pixel(x1, y1)
	px2, py2 := grid.Pixel(x2, y2)
	if d := math.Hypot(px1-px2, py1-py2); d < 2 {
		t.Errorf("sweep axes differ by only %.2f px", d)
	}
}

func TestParseSweep(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Sweep
		err  bool
	}{
		{"x", SweepX, false},
		{"y", SweepY, false},
		{"", DefaultSweep, false},
		{"z", "", true},
	} {
		got, err := ParseSweep(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseSweep(%q) = %q, %v", tt.in, got, err)
		}
		if err != nil && errors.Cause(err) != ErrProjection {
			t.Errorf("ParseSweep(%q): unexpected error %v", tt.in, err)
		}
	}
	if _, err := NewGeostationarySweep(0, DefaultHeight, "z"); errors.Cause(err) != ErrProjection {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNotVisible(t *testing.T) {
	g, err := NewGeostationary(-137.2, DefaultHeight)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := g.Forward(0, 42.8); ok {
		t.Error("antipode visible")
	}
	if _, _, ok := g.Forward(0, -137.2+90); ok {
		t.Error("point 90° away visible")
	}
	limb := g.LimbAngle()
	if _, _, ok := g.Inverse(limb*1.01, 0); ok {
		t.Error("space visible")
	}
	if _, _, ok := g.Inverse(limb*0.99, 0); !ok {
		t.Error("earth inside limb not visible")
	}
}

func TestLimbAngle(t *testing.T) {
	g, err := NewGeostationary(0, DefaultHeight)
	if err != nil {
		t.Fatal(err)
	}
	// 8.7° is the well known half width of the earth seen from GEO
	if a := g.LimbAngle() * rad; math.Abs(a-8.7) > 0.01 {
		t.Fatal(a)
	}
}

func TestInvalidParameters(t *testing.T) {
	for _, tt := range []struct {
		long, height float64
	}{
		{-180.1, DefaultHeight},
		{200, DefaultHeight},
		{math.NaN(), DefaultHeight},
		{0, 0},
		{0, -1},
		{0, math.Inf(1)},
	} {
		_, err := NewGeostationary(tt.long, tt.height)
		if err == nil {
			t.Errorf("%v: expected error", tt)
			continue
		}
		if errors.Cause(err) != ErrProjection {
			t.Errorf("%v: unexpected error %v", tt, err)
		}
	}
}

func TestNormalizeLong(t *testing.T) {
	for _, tt := range []struct {
		in, want float64
	}{
		{0, 0},
		{179, 179},
		{180, -180},
		{181, -179},
		{-181, 179},
		{540, -180},
		{-137.2, -137.2},
	} {
		if got := NormalizeLong(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLong(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGrid(t *testing.T) {
	g, err := NewGeostationary(-137.2, DefaultHeight)
	if err != nil {
		t.Fatal(err)
	}
	grid := FullDisc(512, g)

	x, y := grid.Angle(256, 256)
	if x != 0 || y != 0 {
		t.Errorf("centre: %v %v", x, y)
	}
	x, y = grid.Angle(0, 0)
	if x != -grid.Extent || y != grid.Extent {
		t.Errorf("upper left: %v %v", x, y)
	}
	px, py := grid.Pixel(grid.Angle(100.5, 300.25))
	if math.Abs(px-100.5) > 1e-9 || math.Abs(py-300.25) > 1e-9 {
		t.Errorf("round trip: %v %v", px, py)
	}

	// north is up, east is right
	x, y, _ = g.Forward(10, -137.2)
	_, py = grid.Pixel(x, y)
	if py >= 256 {
		t.Errorf("north below centre: %v", py)
	}
	x, y, _ = g.Forward(0, -130)
	px, _ = grid.Pixel(x, y)
	if px <= 256 {
		t.Errorf("east left of centre: %v", px)
	}
}

func TestPlateCarree(t *testing.T) {
	p := PlateCarree{Width: 360, Height: 180}
	px, py := p.Pixel(0, -137.2)
	if math.Abs(px-42.8) > 1e-9 || py != 90 {
		t.Errorf("%v %v", px, py)
	}
	px, py = p.Pixel(90, -180)
	if px != 0 || py != 0 {
		t.Errorf("upper left: %v %v", px, py)
	}
	lat, long := p.LatLong(p.Pixel(-33.3, 151.2))
	if math.Abs(lat+33.3) > 1e-9 || math.Abs(long-151.2) > 1e-9 {
		t.Errorf("round trip: %v %v", lat, long)
	}
}
