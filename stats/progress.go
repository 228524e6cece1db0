package stats

import (
	"fmt"
	"time"
)

// Progress reports the advance of a row by row operation at most once per
// interval, and always for the last row.
type Progress struct {
	name     string
	report   func(string)
	interval time.Duration
	now      func() time.Time

	start, last time.Time
	done, total int
}

func NewProgress(name string, report func(string)) *Progress {
	return &Progress{
		name:     name,
		report:   report,
		interval: 200 * time.Millisecond,
		now:      time.Now,
	}
}

// Update records that done of total rows are finished.
func (p *Progress) Update(done, total int) {
	now := p.now()
	if p.start.IsZero() {
		p.start = now
	}
	p.done, p.total = done, total
	if done < total && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	p.report(p.String())
}

// Rate returns the rows per second since the first update.
func (p *Progress) Rate() float64 {
	d := p.now().Sub(p.start).Seconds()
	if d <= 0 {
		return 0
	}
	return float64(p.done) / d
}

func (p *Progress) String() string {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	return fmt.Sprintf("%s: %d/%d rows (%5.1f%%) %6.0f rows/s", p.name, p.done, p.total, pct, p.Rate())
}
