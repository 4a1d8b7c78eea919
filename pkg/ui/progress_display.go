package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"ghbot/pkg/engine"
	"ghbot/pkg/models"
)

// ProgressDisplay renders a one-line live view of a batch run. In verbose
// mode every result gets its own line instead.
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	name      string
	total     int
	processed int
	successes int
	failures  int
	current   string
	startTime time.Time
	verbose   bool
}

// NewProgressDisplay creates a display writing to stdout
func NewProgressDisplay(verbose bool) *ProgressDisplay {
	return NewProgressDisplayTo(os.Stdout, verbose)
}

// NewProgressDisplayTo creates a display writing to out
func NewProgressDisplayTo(out io.Writer, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{out: out, verbose: verbose, startTime: time.Now()}
}

// Start resets the display for a new batch
func (p *ProgressDisplay) Start(name string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.name = name
	p.total = total
	p.processed, p.successes, p.failures = 0, 0, 0
	p.current = ""
	p.startTime = time.Now()

	if IsQuietMode() {
		return
	}
	fmt.Fprintf(p.out, "%s %s: %d targets\n", Magenta("→"), name, total)
}

// Result records one action outcome
func (p *ProgressDisplay) Result(r models.ActionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = r.Target
	if r.Success {
		p.successes++
	} else {
		p.failures++
	}

	if IsQuietMode() {
		return
	}
	if p.verbose {
		p.printResult(r)
		return
	}
	p.printProgress()
}

// Progress records that another item finished
func (p *ProgressDisplay) Progress(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed = processed
	p.total = total
	if IsQuietMode() || p.verbose {
		return
	}
	p.printProgress()
}

func (p *ProgressDisplay) printResult(r models.ActionResult) {
	mark := Green("✓")
	if !r.Success {
		mark = Red("✗")
	}
	line := fmt.Sprintf("%s %s %s", mark, r.Kind, r.Target)
	if !r.Success {
		line += Dim(fmt.Sprintf(" (status %d)", r.Status))
	}
	fmt.Fprintln(p.out, line)
}

func (p *ProgressDisplay) printProgress() {
	line := fmt.Sprintf("\r%s [%s] %d/%d • %s",
		Cyan(p.name),
		ProgressBar(p.processed, p.total, 20),
		p.processed,
		p.total,
		ETA(p.processed, p.total, time.Since(p.startTime)),
	)
	if p.current != "" {
		line += " • " + p.current
	}
	if p.failures > 0 {
		line += " • " + Red(fmt.Sprintf("%d failed", p.failures))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 100), line)
}

// RateLimitWarning announces a quota sleep
func (p *ProgressDisplay) RateLimitWarning(wait time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuietMode() {
		return
	}
	fmt.Fprintf(p.out, "\n%s Rate limit reached. Waiting %s...\n", Yellow("⚠"), FormatDuration(wait))
}

// Complete prints the batch summary
func (p *ProgressDisplay) Complete(s engine.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if IsQuietMode() {
		return
	}
	if !p.verbose {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintf(p.out, "\n%s %s: %d/%d processed in %s\n",
		Green("✓"), s.Name, s.Processed, s.Total, FormatDuration(s.Duration))

	for _, kind := range []models.ActionKind{models.ActionFollow, models.ActionUnfollow, models.ActionStar, models.ActionUnstar} {
		if n := s.Count(kind); n > 0 {
			fmt.Fprintf(p.out, "  %s %s: %d\n", Dim("•"), kind, n)
		}
	}
	if s.Failures > 0 {
		fmt.Fprintf(p.out, "  %s %s\n", Dim("•"), Red(fmt.Sprintf("%d actions failed", s.Failures)))
	}
	fmt.Fprintf(p.out, "  %s run %s\n", Dim("•"), Dim(s.RunID))
}
