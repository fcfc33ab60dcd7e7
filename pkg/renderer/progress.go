package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/df07/go-photon-renderer/pkg/core"
)

const progressBarWidth = 40

// TextProgressBar draws "[=====>    ] 45 % (00:01:12)" on a terminal. It is
// safe for concurrent Increment calls from every render worker.
type TextProgressBar struct {
	mu       sync.Mutex
	out      io.Writer
	label    string
	progress float64
	drawn    int // last drawn percentage, -1 before the first draw
	start    time.Time
	stopped  bool
}

// NewTextProgressBar returns a bar drawing to out when out is a terminal and
// a no-op progress sink otherwise, so redirected output stays clean
func NewTextProgressBar(out io.Writer, label string) core.Progress {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return core.NopProgress{}
	}
	return newTextProgressBar(out, label)
}

func newTextProgressBar(out io.Writer, label string) *TextProgressBar {
	return &TextProgressBar{out: out, label: label, drawn: -1, start: time.Now()}
}

// Increment advances the bar by delta, a fraction of the whole job
func (p *TextProgressBar) Increment(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.progress = min(1, p.progress+delta)
	if percent := int(p.progress * 100); percent != p.drawn {
		p.draw(percent)
	}
}

// Stop draws the final state and ends the line
func (p *TextProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	p.draw(int(p.progress * 100))
	fmt.Fprintln(p.out)
}

func (p *TextProgressBar) draw(percent int) {
	p.drawn = percent

	pos := int(progressBarWidth * p.progress)
	var bar strings.Builder
	for i := 0; i < progressBarWidth; i++ {
		switch {
		case i < pos:
			bar.WriteByte('=')
		case i == pos:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}

	var left time.Duration
	if p.progress > 0 {
		elapsed := time.Since(p.start)
		left = time.Duration(float64(elapsed) * (1 - p.progress) / p.progress)
	}
	fmt.Fprintf(p.out, "\r%s [%s] %3d %% (%s)", p.label, bar.String(), percent, formatClock(left))
}

// formatClock formats d as hh:mm:ss
func formatClock(d time.Duration) string {
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}
