package raster

import (
	"strings"

	"github.com/pkg/errors"
)

type Interpolation int

const (
	Nearest Interpolation = iota
	Bilinear
)

func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	}
	return "unknown"
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "nearest", "nn":
		return Nearest, nil
	case "bilinear", "b":
		return Bilinear, nil
	}
	return 0, errors.Errorf("unknown interpolation %q, use nearest or bilinear", s)
}
