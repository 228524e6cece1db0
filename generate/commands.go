package generate

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/omniscale/fulldisc/cache"
	"github.com/omniscale/fulldisc/config"
	"github.com/omniscale/fulldisc/satellite"
)

// ListSatellites prints the satellite table. The default satellite is
// marked with *.
func ListSatellites(w io.Writer, opts *config.Satellites) error {
	registry := satellite.Builtin()
	if opts.SatellitesFile != "" {
		if err := registry.LoadDefinitions(opts.SatellitesFile); err != nil {
			return err
		}
	}
	def := registry.Default().Name
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tLONGITUDE\tHEIGHT\tSWEEP\tFILENAME")
	for _, p := range registry.Profiles() {
		name := p.Name
		if name == def {
			name += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.0f\t%s\t%s\n", name, p.DisplayName, p.Longitude, p.Height, p.Sweep, p.Filename)
	}
	return tw.Flush()
}

// CacheCommand lists or clears the render cache.
func CacheCommand(w io.Writer, opts *config.Cache) error {
	c, err := cache.Open(opts.CacheDir, opts.CacheBackend)
	if err != nil {
		return err
	}
	defer c.Close()

	switch opts.Action {
	case "clear":
		n, err := c.Clear()
		if err != nil {
			return err
		}
		log.Printf("removed %d cached renderings from %s", n, c.Dir())
		return nil
	case "list":
		entries, err := c.List()
		if err != nil {
			return err
		}
		var total int64
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "CREATED\tSATELLITE\tLONGITUDE\tRESOLUTION\tINTERPOLATION\tSIZE\tSOURCE")
		for _, e := range entries {
			total += e.Size
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%s\t%s\t%s\n",
				e.CreatedTime().Format(time.RFC3339), e.Satellite, e.Longitude, e.Resolution,
				e.Interpolation, humanize.Bytes(uint64(e.Size)), e.Source)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%d entries, %s\n", len(entries), humanize.Bytes(uint64(total)))
		return nil
	}
	return errors.Errorf("unknown cache action %q", opts.Action)
}
