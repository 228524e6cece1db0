package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// MemUsage summarizes the current heap. Source and output raster are held
// in memory at the same time, so this is logged after each step.
func MemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("heap %s, sys %s",
		humanize.Bytes(m.HeapAlloc),
		humanize.Bytes(m.Sys),
	)
}

// WriteHeapProfile writes a pprof heap profile to path.
func WriteHeapProfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(err, "creating profile dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating heap profile")
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return errors.Wrap(err, "writing heap profile")
	}
	return f.Close()
}
