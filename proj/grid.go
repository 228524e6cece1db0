package proj

// Grid maps continuous pixel coordinates of a square canvas to scanning
// angles. Pixel (i, j) covers [i, i+1) x [j, j+1); the canvas centre is
// the sub-satellite point and the canvas edges are at ±Extent.
type Grid struct {
	Size   int
	Extent float64
}

// FullDisc returns the grid where the visible disc touches the canvas
// edges.
func FullDisc(size int, g *Geostationary) Grid {
	return Grid{Size: size, Extent: g.LimbAngle()}
}

// Angle returns the scanning angle at pixel position (px, py).
func (g Grid) Angle(px, py float64) (x, y float64) {
	half := float64(g.Size) / 2
	x = (px - half) / half * g.Extent
	y = (half - py) / half * g.Extent
	return x, y
}

// Pixel returns the pixel position of scanning angle (x, y).
func (g Grid) Pixel(x, y float64) (px, py float64) {
	half := float64(g.Size) / 2
	px = half + x/g.Extent*half
	py = half - y/g.Extent*half
	return px, py
}
