package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/omniscale/fulldisc/cache"
	"github.com/omniscale/fulldisc/proj"
	"github.com/omniscale/fulldisc/raster"
	"github.com/omniscale/fulldisc/render"
)

// Config is the JSON config file. Options given on the command line take
// precedence.
type Config struct {
	Source         string   `json:"source"`
	Satellite      string   `json:"satellite"`
	SatellitesFile string   `json:"satellites"`
	Longitude      *float64 `json:"longitude"`
	Height         float64  `json:"height"`
	Resolution     int      `json:"resolution"`
	Output         string   `json:"output"`
	Interpolation  string   `json:"interpolation"`
	Supersample    int      `json:"supersample"`
	Background     string   `json:"background"`
	MaxPixels      *int64   `json:"maxpixels"`
	Sweep          string   `json:"sweep"`
	CacheDir       string   `json:"cachedir"`
	CacheBackend   string   `json:"cachebackend"`
}

const (
	defaultInterpolation = "bilinear"
	defaultBackground    = "transparent"
)

type Base struct {
	ConfigFile   string
	CacheDir     string
	CacheBackend string
	Quiet        bool
	Debug        bool
}

type Render struct {
	Base
	Source         string
	Satellite      string
	SatellitesFile string
	Output         string
	Interpolation  string
	Background     string
	MemProfile     string
	// Sweep overrides the sweep axis of the satellite if not empty.
	Sweep string
	// Longitude overrides the satellite longitude if LongitudeSet.
	Longitude    float64
	LongitudeSet bool
	Height       float64
	HeightSet    bool
	Resolution   int
	Supersample  int
	MaxPixels    int64
	NoCache      bool
}

type Satellites struct {
	SatellitesFile string
}

type Cache struct {
	Base
	Action string
}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "config (json)")
	flags.StringVar(&opts.CacheDir, "cachedir", "", "render cache directory, disabled if empty")
	flags.StringVar(&opts.CacheBackend, "cachebackend", cache.BackendBadger, "render cache backend (badger or leveldb)")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
	flags.BoolVar(&opts.Debug, "debug", false, "debug log output")
}

func renderFlags(opts *Render) *flag.FlagSet {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	flags.StringVar(&opts.Source, "source", "", "equirectangular world image")
	flags.StringVar(&opts.Satellite, "satellite", "", "satellite name (see satellites command)")
	flags.StringVar(&opts.SatellitesFile, "satellites", "", "additional satellite definitions (yaml)")
	flags.StringVar(&opts.Output, "output", "", "output PNG, defaults to the satellite filename")
	flags.Float64Var(&opts.Longitude, "longitude", 0, "override sub-satellite longitude (degrees)")
	flags.Float64Var(&opts.Height, "height", proj.DefaultHeight, "satellite height (m)")
	flags.StringVar(&opts.Sweep, "sweep", "", "override sweep axis of the satellite (x or y)")
	flags.IntVar(&opts.Resolution, "resolution", render.DefaultResolution, "edge length of the output image (px)")
	flags.StringVar(&opts.Interpolation, "interpolation", defaultInterpolation, "nearest or bilinear")
	flags.IntVar(&opts.Supersample, "supersample", 1, "render at n times the resolution and scale down")
	flags.StringVar(&opts.Background, "background", defaultBackground, "transparent or black")
	flags.Int64Var(&opts.MaxPixels, "maxpixels", raster.DefaultMaxPixels, "refuse larger source images, 0 for no limit")
	flags.StringVar(&opts.MemProfile, "memprofile", "", "write heap profile after reprojection")
	flags.BoolVar(&opts.NoCache, "nocache", false, "do not read from the render cache")
	return flags
}

func setFlags(flags *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func readConfig(fname string) (*Config, error) {
	conf := &Config{}
	if fname == "" {
		return conf, nil
	}
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "opening config")
	}
	defer f.Close()
	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(conf); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fname)
	}
	return conf, nil
}

func (o *Base) updateFromConfig(conf *Config, set map[string]bool) {
	if !set["cachedir"] && conf.CacheDir != "" {
		o.CacheDir = conf.CacheDir
	}
	if !set["cachebackend"] && conf.CacheBackend != "" {
		o.CacheBackend = conf.CacheBackend
	}
}

func (o *Render) updateFromConfig(conf *Config, set map[string]bool) {
	o.Base.updateFromConfig(conf, set)
	if !set["source"] && conf.Source != "" {
		o.Source = conf.Source
	}
	if !set["satellite"] && conf.Satellite != "" {
		o.Satellite = conf.Satellite
	}
	if !set["satellites"] && conf.SatellitesFile != "" {
		o.SatellitesFile = conf.SatellitesFile
	}
	if !set["output"] && conf.Output != "" {
		o.Output = conf.Output
	}
	o.LongitudeSet = set["longitude"]
	if !o.LongitudeSet && conf.Longitude != nil {
		o.Longitude = *conf.Longitude
		o.LongitudeSet = true
	}
	o.HeightSet = set["height"]
	if !o.HeightSet && conf.Height != 0 {
		o.Height = conf.Height
		o.HeightSet = true
	}
	if !set["resolution"] && conf.Resolution != 0 {
		o.Resolution = conf.Resolution
	}
	if !set["interpolation"] && conf.Interpolation != "" {
		o.Interpolation = conf.Interpolation
	}
	if !set["supersample"] && conf.Supersample != 0 {
		o.Supersample = conf.Supersample
	}
	if !set["background"] && conf.Background != "" {
		o.Background = conf.Background
	}
	if !set["sweep"] && conf.Sweep != "" {
		o.Sweep = conf.Sweep
	}
	if !set["maxpixels"] && conf.MaxPixels != nil {
		o.MaxPixels = *conf.MaxPixels
	}
}

func (o *Render) check() []error {
	errs := []error{}
	if o.Source == "" {
		errs = append(errs, errors.New("missing -source"))
	}
	if o.LongitudeSet && (math.IsNaN(o.Longitude) || o.Longitude < -180 || o.Longitude > 180) {
		errs = append(errs, errors.Wrapf(proj.ErrProjection, "-longitude %v outside [-180, 180]", o.Longitude))
	}
	if !(o.Height > 0) {
		errs = append(errs, errors.Wrapf(proj.ErrProjection, "-height %v not positive", o.Height))
	}
	if o.Sweep != "" {
		if _, err := proj.ParseSweep(o.Sweep); err != nil {
			errs = append(errs, err)
		}
	}
	if o.Resolution <= 0 {
		errs = append(errs, errors.Wrapf(proj.ErrProjection, "-resolution %d not positive", o.Resolution))
	}
	if o.Supersample < 1 || o.Supersample > render.MaxSupersample {
		errs = append(errs, errors.Errorf("-supersample %d outside 1..%d", o.Supersample, render.MaxSupersample))
	}
	if o.MaxPixels < 0 {
		errs = append(errs, errors.Errorf("-maxpixels %d negative", o.MaxPixels))
	}
	if _, err := raster.ParseInterpolation(o.Interpolation); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseBackground(o.Background); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Errors is returned for invalid options.
type Errors []error

func (e Errors) Error() string {
	return fmt.Sprintf("%d errors in config/options, first: %v", len(e), e[0])
}

// ProjectionError returns the first projection error, if any.
func (e Errors) ProjectionError() error {
	for _, err := range e {
		if errors.Cause(err) == proj.ErrProjection {
			return err
		}
	}
	return nil
}

func ParseRender(args []string) (*Render, error) {
	opts := &Render{}
	flags := renderFlags(opts)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %v", flags.Args())
	}
	conf, err := readConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	opts.updateFromConfig(conf, setFlags(flags))
	if errs := opts.check(); len(errs) != 0 {
		return nil, Errors(errs)
	}
	return opts, nil
}

func satellitesFlags(opts *Satellites) *flag.FlagSet {
	flags := flag.NewFlagSet("satellites", flag.ContinueOnError)
	flags.StringVar(&opts.SatellitesFile, "satellites", "", "additional satellite definitions (yaml)")
	return flags
}

func ParseSatellites(args []string) (*Satellites, error) {
	opts := &Satellites{}
	flags := satellitesFlags(opts)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func cacheFlags(opts *Cache) *flag.FlagSet {
	flags := flag.NewFlagSet("cache", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	return flags
}

func ParseCache(args []string) (*Cache, error) {
	opts := &Cache{}
	flags := cacheFlags(opts)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	conf, err := readConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	opts.updateFromConfig(conf, setFlags(flags))

	if flags.NArg() != 1 {
		return nil, errors.New("expected one of: list, clear")
	}
	opts.Action = flags.Arg(0)
	if opts.Action != "list" && opts.Action != "clear" {
		return nil, errors.Errorf("unknown cache action %q, expected list or clear", opts.Action)
	}
	if opts.CacheDir == "" {
		return nil, errors.New("missing -cachedir")
	}
	return opts, nil
}

// Usage prints the flags of a command.
func Usage(w io.Writer, command string) {
	var flags *flag.FlagSet
	switch command {
	case "render":
		flags = renderFlags(&Render{})
	case "satellites":
		flags = satellitesFlags(&Satellites{})
	case "cache":
		flags = cacheFlags(&Cache{})
	default:
		return
	}
	fmt.Fprintf(w, "Usage: %s %s [args]\n\n", os.Args[0], command)
	flags.SetOutput(w)
	flags.PrintDefaults()
}
