//go:build proj
// +build proj

package proj

import (
	"fmt"
	"math"

	pj "github.com/pebbe/proj/v5"
	"github.com/pkg/errors"
)

// Backend names the implementation returned by NewTransformer.
const Backend = "proj"

// PJ delegates the geostationary transformation to the PROJ library.
type PJ struct {
	ctx    *pj.Context
	pj     *pj.PJ
	height float64
}

// NewTransformer returns a PROJ backed transformer for g.
func NewTransformer(g *Geostationary) (Transformer, error) {
	ctx := pj.NewContext()
	def := fmt.Sprintf(
		"+proj=pipeline +step +proj=unitconvert +xy_in=deg +xy_out=rad "+
			"+step +proj=geos +sweep=%s +h=%.3f +lon_0=%.6f +a=%.4f +b=%.5f",
		g.Sweep, g.Height, g.Long, g.Ellipsoid.A, g.Ellipsoid.B,
	)
	p, err := ctx.Create(def)
	if err != nil {
		ctx.Close()
		return nil, errors.Wrapf(ErrProjection, "creating PROJ pipeline %q: %v", def, err)
	}
	return &PJ{ctx: ctx, pj: p, height: g.Height}, nil
}

// Forward returns scanning angles. PROJ works in metres on the plane at
// satellite height.
func (p *PJ) Forward(lat, long float64) (x, y float64, ok bool) {
	c, err := p.pj.Trans(pj.Fwd, pj.Coord{long, lat, 0, 0})
	if err != nil || !finite(c[0]) || !finite(c[1]) {
		return math.NaN(), math.NaN(), false
	}
	return c[0] / p.height, c[1] / p.height, true
}

func (p *PJ) Inverse(x, y float64) (lat, long float64, ok bool) {
	c, err := p.pj.Trans(pj.Inv, pj.Coord{x * p.height, y * p.height, 0, 0})
	if err != nil || !finite(c[0]) || !finite(c[1]) {
		return math.NaN(), math.NaN(), false
	}
	return c[1], NormalizeLong(c[0]), true
}

func (p *PJ) Close() error {
	p.pj.Close()
	p.ctx.Close()
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
