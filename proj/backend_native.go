//go:build !proj
// +build !proj

package proj

// Backend names the implementation returned by NewTransformer.
const Backend = "native"

// NewTransformer returns the transformer for g.
func NewTransformer(g *Geostationary) (Transformer, error) {
	return g, nil
}
