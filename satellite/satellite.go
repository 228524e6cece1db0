// Package satellite contains the table of geostationary satellites that
// can be rendered.
package satellite

import (
	_ "embed"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/omniscale/fulldisc/proj"
)

//go:embed satellites.yml
var builtinDefinitions []byte

type Profile struct {
	Name        string  `yaml:"-"`
	DisplayName string  `yaml:"display_name"`
	Filename    string  `yaml:"filename"`
	Longitude   float64 `yaml:"longitude"`
	Height      float64 `yaml:"height"`
	// Sweep is the scan geometry, x for GOES fixed grid images.
	Sweep proj.Sweep `yaml:"sweep"`
}

// Geostationary returns the projection of the satellite view.
func (p Profile) Geostationary() (*proj.Geostationary, error) {
	g, err := proj.NewGeostationarySweep(p.Longitude, p.Height, p.Sweep)
	if err != nil {
		return nil, errors.Wrapf(err, "satellite %s", p.Name)
	}
	return g, nil
}

func (p Profile) Validate() error {
	_, err := p.Geostationary()
	return err
}

type definitions struct {
	Default    string             `yaml:"default"`
	Satellites map[string]Profile `yaml:"satellites"`
}

type Registry struct {
	profiles    map[string]Profile
	defaultName string
}

var builtin *Registry

func init() {
	var err error
	builtin, err = Parse(builtinDefinitions)
	if err != nil {
		panic(err)
	}
}

// Builtin returns a copy of the compiled in satellite table.
func Builtin() *Registry {
	r := &Registry{profiles: make(map[string]Profile), defaultName: builtin.defaultName}
	for k, v := range builtin.profiles {
		r.profiles[k] = v
	}
	return r
}

// Lookup searches the compiled in satellite table.
func Lookup(name string) (Profile, error) {
	return builtin.Lookup(name)
}

func Default() Profile {
	return builtin.Default()
}

// Parse reads a YAML satellite table.
func Parse(data []byte) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile)}
	if err := r.Merge(data); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDefinitions adds or replaces the satellites of a YAML file.
func (r *Registry) LoadDefinitions(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading satellite definitions")
	}
	return errors.Wrapf(r.Merge(data), "satellite definitions %s", path)
}

// Merge adds or replaces the satellites of a YAML table. Nothing is
// changed if any of the definitions is invalid.
func (r *Registry) Merge(data []byte) error {
	defs := definitions{}
	if err := yaml.UnmarshalStrict(data, &defs); err != nil {
		return errors.Wrap(err, "parsing satellite definitions")
	}

	names := make([]string, 0, len(defs.Satellites))
	for name := range defs.Satellites {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make(map[string]Profile, len(r.profiles)+len(names))
	for k, v := range r.profiles {
		merged[k] = v
	}
	for _, key := range names {
		p := defs.Satellites[key]
		name := strings.ToLower(key)
		p.Name = name
		if p.DisplayName == "" {
			p.DisplayName = name
		}
		if p.Filename == "" {
			p.Filename = name + ".png"
		}
		if p.Height == 0 {
			p.Height = proj.DefaultHeight
		}
		if p.Sweep == "" {
			p.Sweep = proj.DefaultSweep
		}
		p.Longitude = proj.NormalizeLong(p.Longitude)
		if err := p.Validate(); err != nil {
			return err
		}
		merged[name] = p
	}

	defaultName := r.defaultName
	if defs.Default != "" {
		defaultName = strings.ToLower(defs.Default)
	}
	if _, ok := merged[defaultName]; !ok {
		return errors.Errorf("default satellite %q not defined", defaultName)
	}
	r.profiles = merged
	r.defaultName = defaultName
	return nil
}

// Lookup returns the profile by name. An empty name selects the default.
func (r *Registry) Lookup(name string) (Profile, error) {
	if name == "" {
		return r.Default(), nil
	}
	p, ok := r.profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, errors.Errorf("unknown satellite %q, available: %s",
			name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

func (r *Registry) Default() Profile {
	return r.profiles[r.defaultName]
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Profiles() []Profile {
	profiles := make([]Profile, 0, len(r.profiles))
	for _, name := range r.Names() {
		profiles = append(profiles, r.profiles[name])
	}
	return profiles
}
