// Package raster loads equirectangular world images and samples them by
// latitude/longitude.
package raster

import (
	"bufio"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/omniscale/fulldisc/proj"
)

var (
	ErrFileNotFound = errors.New("source image not found")
	ErrDecode       = errors.New("cannot decode source image")
)

// DefaultMaxPixels allows a 21600x10800 world image with three times the
// width, e.g. the NASA Blue Marble mosaics.
const DefaultMaxPixels = 933120000

type Options struct {
	// MaxPixels rejects images with more pixels before they are decoded.
	// 0 disables the check.
	MaxPixels int64
}

// CRS is the coordinate reference system of a raster.
type CRS int

const (
	PlateCarree CRS = iota
)

func (c CRS) String() string {
	switch c {
	case PlateCarree:
		return "plate carrée"
	}
	return "unknown"
}

type Raster struct {
	Image  image.Image
	CRS    CRS
	Format string

	geom   proj.PlateCarree
	bounds image.Rectangle
}

// New wraps an in-memory equirectangular image.
func New(img image.Image) *Raster {
	b := img.Bounds()
	return &Raster{
		Image:  img,
		CRS:    PlateCarree,
		geom:   proj.PlateCarree{Width: b.Dx(), Height: b.Dy()},
		bounds: b,
	}
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(ErrFileNotFound, "reading %s: %v", path, err)
	}
	return f, nil
}

// checkHeader decodes the image header from r and rejects empty images
// and images above opts.MaxPixels.
func checkHeader(path string, r io.Reader, opts Options) (string, error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return "", errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", errors.Wrapf(ErrDecode, "%s: empty image %dx%d", path, cfg.Width, cfg.Height)
	}
	if n := int64(cfg.Width) * int64(cfg.Height); opts.MaxPixels > 0 && n > opts.MaxPixels {
		return "", errors.Wrapf(ErrDecode,
			"%s: %dx%d has %d pixels, limit is %d", path, cfg.Width, cfg.Height, n, opts.MaxPixels)
	}
	return format, nil
}

// CheckSize reads only the image header of path and returns the same
// errors as Load for missing, unknown, empty or too large images.
func CheckSize(path string, opts Options) error {
	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = checkHeader(path, f, opts)
	return err
}

// Load decodes the image at path. Images above opts.MaxPixels are
// rejected from their header.
func Load(path string, opts Options) (*Raster, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, err := checkHeader(path, f, opts)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "reading %s: %v", path, err)
	}
	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}
	r := New(img)
	r.Format = format
	return r, nil
}

// Width and Height in pixels.
func (r *Raster) Width() int  { return r.geom.Width }
func (r *Raster) Height() int { return r.geom.Height }

// Sample returns the colour at latitude/longitude. Longitudes wrap around
// the antimeridian, latitudes are clamped at the poles.
func (r *Raster) Sample(lat, long float64, interp Interpolation) color.NRGBA {
	px, py := r.geom.Pixel(lat, long)
	if interp == Nearest {
		return toNRGBA(r.rgba(int(math.Floor(px)), int(math.Floor(py))))
	}

	// pixel centres are at +0.5
	fx, fy := px-0.5, py-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)

	c00 := r.rgba(ix, iy)
	c10 := r.rgba(ix+1, iy)
	c01 := r.rgba(ix, iy+1)
	c11 := r.rgba(ix+1, iy+1)

	var c [4]float64
	for i := range c {
		c[i] = blerp(c00[i], c10[i], c01[i], c11[i], tx, ty)
	}
	return toNRGBA(c)
}

// rgba returns the premultiplied 16 bit colour of pixel x, y relative to
// the image origin.
func (r *Raster) rgba(x, y int) [4]float64 {
	w, h := r.geom.Width, r.geom.Height
	x %= w
	if x < 0 {
		x += w
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	x += r.bounds.Min.X
	y += r.bounds.Min.Y

	switch img := r.Image.(type) {
	case *image.YCbCr:
		yi := img.YOffset(x, y)
		ci := img.COffset(x, y)
		cr, cg, cb := color.YCbCrToRGB(img.Y[yi], img.Cb[ci], img.Cr[ci])
		return [4]float64{float64(cr) * 0x101, float64(cg) * 0x101, float64(cb) * 0x101, 0xffff}
	case *image.RGBA:
		i := img.PixOffset(x, y)
		p := img.Pix[i : i+4 : i+4]
		return [4]float64{float64(p[0]) * 0x101, float64(p[1]) * 0x101, float64(p[2]) * 0x101, float64(p[3]) * 0x101}
	}
	cr, cg, cb, ca := r.Image.At(x, y).RGBA()
	return [4]float64{float64(cr), float64(cg), float64(cb), float64(ca)}
}

func lerp(start, end, amount float64) float64 {
	return start + (end-start)*amount
}

func blerp(c00, c10, c01, c11, tx, ty float64) float64 {
	return lerp(lerp(c00, c10, tx), lerp(c01, c11, tx), ty)
}

func toNRGBA(c [4]float64) color.NRGBA {
	a := c[3]
	if a <= 0 {
		return color.NRGBA{}
	}
	scale := 0xffff / a
	return color.NRGBA{
		R: to8(c[0] * scale),
		G: to8(c[1] * scale),
		B: to8(c[2] * scale),
		A: to8(a),
	}
}

func to8(v float64) uint8 {
	v = math.Round(v / 0x101)
	if v < 0 {
		return 0
	}
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}
