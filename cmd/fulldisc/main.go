package main

import (
	"flag"
	"fmt"
	golog "log"
	"os"

	"github.com/pkg/errors"

	"github.com/omniscale/fulldisc"
	"github.com/omniscale/fulldisc/config"
	"github.com/omniscale/fulldisc/generate"
	"github.com/omniscale/fulldisc/logging"
	"github.com/omniscale/fulldisc/proj"
	"github.com/omniscale/fulldisc/raster"
	"github.com/omniscale/fulldisc/render"
)

var log = logging.NewLogger("")

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\trender")
	fmt.Println("\tsatellites")
	fmt.Println("\tcache")
	fmt.Println("\tversion")
	fmt.Println()
	fmt.Printf("Run %s COMMAND -h for the options of a command.\n", os.Args[0])
}

// errorKind names the failure class of err for the final log message.
func errorKind(err error) string {
	switch errors.Cause(err) {
	case raster.ErrFileNotFound:
		return "file not found"
	case raster.ErrDecode:
		return "decode error"
	case proj.ErrProjection:
		return "projection error"
	case render.ErrWrite:
		return "write error"
	}
	if errs, ok := err.(config.Errors); ok {
		if perr := errs.ProjectionError(); perr != nil {
			return "projection error"
		}
		return "invalid options"
	}
	return "error"
}

func exitOnError(command string, err error) {
	if err == nil {
		return
	}
	if err == flag.ErrHelp {
		config.Usage(os.Stderr, command)
		logging.Shutdown()
		os.Exit(2)
	}
	if errs, ok := err.(config.Errors); ok {
		for _, e := range errs {
			log.Errorf("%v", e)
		}
	}
	log.Fatalf("%s: %v", errorKind(err), err)
}

func Main(usage func()) {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		usage()
		logging.Shutdown()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		opts, err := config.ParseRender(os.Args[2:])
		exitOnError("render", err)
		fname, err := generate.Run(opts)
		exitOnError("render", err)
		log.Printf("wrote %s", fname)
	case "satellites":
		opts, err := config.ParseSatellites(os.Args[2:])
		exitOnError("satellites", err)
		exitOnError("satellites", generate.ListSatellites(os.Stdout, opts))
	case "cache":
		opts, err := config.ParseCache(os.Args[2:])
		exitOnError("cache", err)
		exitOnError("cache", generate.CacheCommand(os.Stdout, opts))
	case "version":
		fmt.Println(fulldisc.Version)
		os.Exit(0)
	default:
		usage()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
	logging.Shutdown()
	os.Exit(0)
}

func main() {
	Main(PrintCmds)
}
