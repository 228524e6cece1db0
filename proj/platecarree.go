package proj

// PlateCarree is the geometry of an equirectangular world raster with
// upper-left origin covering longitude -180..180 and latitude 90..-90.
type PlateCarree struct {
	Width, Height int
}

// Pixel returns the continuous pixel position of latitude/longitude.
func (p PlateCarree) Pixel(lat, long float64) (px, py float64) {
	px = (long + 180) / 360 * float64(p.Width)
	py = (90 - lat) / 180 * float64(p.Height)
	return px, py
}

// LatLong returns the latitude/longitude of a continuous pixel position.
func (p PlateCarree) LatLong(px, py float64) (lat, long float64) {
	long = px/float64(p.Width)*360 - 180
	lat = 90 - py/float64(p.Height)*180
	return lat, long
}
