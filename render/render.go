// Package render reprojects equirectangular rasters into the full disc
// view of a geostationary satellite.
package render

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/omniscale/fulldisc/proj"
	"github.com/omniscale/fulldisc/raster"
)

const (
	DefaultResolution = 7500
	MaxSupersample    = 4
)

type Background int

const (
	Transparent Background = iota
	Black
)

func (b Background) String() string {
	if b == Black {
		return "black"
	}
	return "transparent"
}

func ParseBackground(s string) (Background, error) {
	switch s {
	case "transparent", "":
		return Transparent, nil
	case "black":
		return Black, nil
	}
	return 0, errors.Errorf("unknown background %q, use transparent or black", s)
}

type Options struct {
	// Resolution is the edge length of the square output image.
	Resolution    int
	Interpolation raster.Interpolation
	// Supersample renders at Supersample times the resolution and scales
	// the result down. 0 and 1 render directly.
	Supersample int
	Background  Background
	// Progress is called after each rendered row.
	Progress func(row, rows int)
}

func (o Options) check() error {
	if o.Resolution <= 0 {
		return errors.Wrapf(proj.ErrProjection, "resolution %d not positive", o.Resolution)
	}
	if o.Supersample < 0 || o.Supersample > MaxSupersample {
		return errors.Wrapf(proj.ErrProjection, "supersample %d outside 1..%d", o.Supersample, MaxSupersample)
	}
	return nil
}

// Reproject renders src as seen from the satellite of geos. The disc
// fills the canvas; everything outside the disc stays transparent and no
// outline is drawn.
func Reproject(src *raster.Raster, geos *proj.Geostationary, opts Options) (*image.NRGBA, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}
	if src.CRS != raster.PlateCarree {
		return nil, errors.Wrapf(proj.ErrProjection, "unsupported source CRS %s", src.CRS)
	}
	t, err := proj.NewTransformer(geos)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	size := opts.Resolution * ss
	img := reproject(src, t, proj.FullDisc(size, geos), opts)

	if ss > 1 {
		img = downsample(img, opts.Resolution)
	}
	if opts.Background == Black {
		fillBackground(img, color.NRGBA{0, 0, 0, 0xff})
	}
	return img, nil
}

func reproject(src *raster.Raster, t proj.Transformer, grid proj.Grid, opts Options) *image.NRGBA {
	size := grid.Size
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		row := dst.Pix[py*dst.Stride : py*dst.Stride+size*4]
		for px := 0; px < size; px++ {
			x, y := grid.Angle(float64(px)+0.5, float64(py)+0.5)
			lat, long, ok := t.Inverse(x, y)
			if !ok {
				continue
			}
			c := src.Sample(lat, long, opts.Interpolation)
			p := row[px*4 : px*4+4 : px*4+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
		if opts.Progress != nil {
			opts.Progress(py+1, size)
		}
	}
	return dst
}

func downsample(src *image.NRGBA, size int) *image.NRGBA {
	rect := image.Rect(0, 0, size, size)
	scaled := image.NewRGBA(rect)
	draw.CatmullRom.Scale(scaled, rect, src, src.Bounds(), draw.Src, nil)
	dst := image.NewNRGBA(rect)
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Src)
	return dst
}

// fillBackground composes img over an opaque colour.
func fillBackground(img *image.NRGBA, bg color.NRGBA) {
	canvas := image.NewNRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)
	copy(img.Pix, canvas.Pix)
}
