package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	reports := []string{}
	p := NewProgress("Reprojecting", func(s string) { reports = append(reports, s) })
	p.now = func() time.Time { return now }

	p.Update(1, 100)
	now = now.Add(100 * time.Millisecond)
	p.Update(2, 100)
	now = now.Add(200 * time.Millisecond)
	p.Update(50, 100)
	now = now.Add(10 * time.Millisecond)
	p.Update(100, 100)

	if len(reports) != 3 {
		t.Fatalf("unexpected reports %q", reports)
	}
	if !strings.HasPrefix(reports[1], "Reprojecting: 50/100 rows ( 50.0%)") {
		t.Errorf("unexpected report %q", reports[1])
	}
	if !strings.HasPrefix(reports[2], "Reprojecting: 100/100 rows (100.0%)") {
		t.Errorf("unexpected report %q", reports[2])
	}
	if r := p.Rate(); r < 322 || r > 323 {
		t.Errorf("unexpected rate %v", r)
	}
}

func TestMemUsage(t *testing.T) {
	if s := MemUsage(); !strings.HasPrefix(s, "heap ") {
		t.Errorf("unexpected usage %q", s)
	}
}

func TestWriteHeapProfile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "prof", "heap.pprof")
	if err := WriteHeapProfile(fname); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(fname); err != nil || fi.Size() == 0 {
		t.Errorf("profile not written: %v", err)
	}
}
