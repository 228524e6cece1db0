/*
Package generate provides the render sub command. It reprojects a world
image into the full disc view of a satellite and writes it as PNG.
*/
package generate

import (
	"bytes"
	"time"

	"github.com/pkg/errors"

	"github.com/omniscale/fulldisc/cache"
	"github.com/omniscale/fulldisc/config"
	"github.com/omniscale/fulldisc/logging"
	"github.com/omniscale/fulldisc/proj"
	"github.com/omniscale/fulldisc/raster"
	"github.com/omniscale/fulldisc/render"
	"github.com/omniscale/fulldisc/satellite"
	"github.com/omniscale/fulldisc/stats"
)

var log = logging.NewLogger("render")

// Profile returns the satellite selected by opts, with the longitude and
// height overrides applied.
func Profile(opts *config.Render) (satellite.Profile, error) {
	registry := satellite.Builtin()
	if opts.SatellitesFile != "" {
		if err := registry.LoadDefinitions(opts.SatellitesFile); err != nil {
			return satellite.Profile{}, err
		}
	}
	p, err := registry.Lookup(opts.Satellite)
	if err != nil {
		return satellite.Profile{}, err
	}
	if opts.LongitudeSet {
		p.Longitude = opts.Longitude
	}
	if opts.HeightSet {
		p.Height = opts.Height
	}
	if opts.Sweep != "" {
		p.Sweep = proj.Sweep(opts.Sweep)
	}
	if err := p.Validate(); err != nil {
		return satellite.Profile{}, err
	}
	return p, nil
}

// Run renders the full disc described by opts and returns the path of the
// written image. Nothing is written if an error is returned.
func Run(opts *config.Render) (string, error) {
	logging.SetQuiet(opts.Quiet)
	logging.SetDebug(opts.Debug)

	profile, err := Profile(opts)
	if err != nil {
		return "", err
	}
	geos, err := profile.Geostationary()
	if err != nil {
		return "", err
	}
	interp, err := raster.ParseInterpolation(opts.Interpolation)
	if err != nil {
		return "", err
	}
	bg, err := render.ParseBackground(opts.Background)
	if err != nil {
		return "", err
	}
	output := opts.Output
	if output == "" {
		output = profile.Filename
	}
	log.Printf("%s at %.1f°, sweep %s, %dx%d px -> %s",
		profile.DisplayName, profile.Longitude, profile.Sweep, opts.Resolution, opts.Resolution, output)

	// the source limits hold for cached renderings too
	srcOpts := raster.Options{MaxPixels: opts.MaxPixels}
	if err := raster.CheckSize(opts.Source, srcOpts); err != nil {
		return "", err
	}

	var renderCache *cache.Cache
	var entry *cache.Entry
	if opts.CacheDir != "" {
		renderCache, err = cache.Open(opts.CacheDir, opts.CacheBackend)
		if err != nil {
			log.Warnf("render cache disabled: %v", err)
		} else {
			defer renderCache.Close()
			entry = &cache.Entry{
				Satellite:     profile.Name,
				Longitude:     profile.Longitude,
				Height:        profile.Height,
				Resolution:    int32(opts.Resolution),
				Interpolation: interp.String(),
				Supersample:   int32(opts.Supersample),
				Background:    bg.String(),
				Projection:    proj.Backend,
				Sweep:         string(profile.Sweep),
			}
			if err := entry.SetSource(opts.Source); err != nil {
				return "", errors.Wrapf(raster.ErrFileNotFound, "%s: %v", opts.Source, err)
			}
		}
	}

	if entry != nil && !opts.NoCache {
		data, err := renderCache.Get(entry)
		if err == nil {
			log.Printf("using cached rendering from %s", renderCache.Dir())
			if err := render.WriteFile(output, data); err != nil {
				return "", err
			}
			return output, nil
		} else if err != cache.NotFound {
			log.Warnf("reading render cache: %v", err)
		}
	}

	step := log.StartStep("Loading " + opts.Source)
	src, err := raster.Load(opts.Source, srcOpts)
	if err != nil {
		return "", err
	}
	log.StopStep(step)
	log.Debugf("source %s %dx%d, %s", src.Format, src.Width(), src.Height(), stats.MemUsage())

	step = log.StartStep("Reprojecting")
	progress := stats.NewProgress("Reprojecting", logging.Progress)
	img, err := render.Reproject(src, geos, render.Options{
		Resolution:    opts.Resolution,
		Interpolation: interp,
		Supersample:   opts.Supersample,
		Background:    bg,
		Progress:      progress.Update,
	})
	if err != nil {
		return "", err
	}
	log.StopStep(step)
	log.Debugf("%s, %s", progress, stats.MemUsage())

	if opts.MemProfile != "" {
		if err := stats.WriteHeapProfile(opts.MemProfile); err != nil {
			log.Warnf("%v", err)
		}
	}

	step = log.StartStep("Writing " + output)
	if entry == nil {
		if err := render.WritePNG(output, img); err != nil {
			return "", err
		}
		log.StopStep(step)
		return output, nil
	}

	buf := &bytes.Buffer{}
	if err := render.EncodePNG(buf, img); err != nil {
		return "", errors.Wrapf(render.ErrWrite, "%s: %v", output, err)
	}
	if err := render.WriteFile(output, buf.Bytes()); err != nil {
		return "", err
	}
	log.StopStep(step)

	entry.Created = time.Now().UnixNano()
	if err := renderCache.Put(entry, buf.Bytes()); err != nil {
		log.Warnf("storing rendering in cache: %v", err)
	}
	return output, nil
}
