package presenter

import (
	"os"
	"sync"

	"github.com/olekukonko/ts"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
)

// Progress renders an mpb progress bar for plain, non-dashboard runs. It
// implements application.MetricsObserver.
type Progress struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	width    int

	mu      sync.Mutex
	current string
}

// NewProgress creates a new progress presenter writing to stderr.
func NewProgress() *Progress {
	return &Progress{
		progress: mpb.New(mpb.WithOutput(os.Stderr)),
		width:    terminalWidth(),
	}
}

// OnMetricsUpdate implements application.MetricsObserver
func (p *Progress) OnMetricsUpdate(metrics *entity.Metrics) {
	p.mu.Lock()
	p.current = p.trim(metrics.CurrentAddress)
	p.mu.Unlock()

	if p.bar == nil {
		if metrics.Queued == 0 {
			return
		}
		p.bar = p.progress.AddBar(int64(metrics.Queued),
			mpb.PrependDecorators(
				decor.Name("listings", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("[%d / %d]", decor.WCSyncWidth),
				decor.Percentage(decor.WCSyncSpace),
				decor.Any(func(decor.Statistics) string {
					p.mu.Lock()
					defer p.mu.Unlock()
					return " " + p.current
				}, decor.WCSyncSpaceR),
			),
		)
	}

	p.bar.SetCurrent(int64(metrics.Processed))
}

// Wait blocks until the bar has rendered its final state.
func (p *Progress) Wait() {
	if p.bar != nil {
		p.bar.SetTotal(-1, true)
	}
	p.progress.Wait()
}

// trim shortens an address so the decorated bar still fits the terminal.
func (p *Progress) trim(address string) string {
	limit := p.width / 3
	if limit <= 3 || len(address) <= limit {
		return address
	}
	return address[:limit-3] + "..."
}

func terminalWidth() int {
	size, err := ts.GetSize()
	if err != nil {
		return 80
	}
	return size.Col()
}
