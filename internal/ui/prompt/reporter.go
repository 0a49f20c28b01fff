package prompt

import (
	"fmt"
	"io"
	"sync"

	"github.com/imamik/modsetup/internal/engine"
)

// Reporter is an engine observer that prints faults and skipped actions
// between prompts.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Event implements engine.Observer.
func (r *Reporter) Event(ev engine.Event) {
	if !ev.Failure() && ev.Type != engine.EventActionSkipped {
		return
	}

	mark := noticeStyle.Render("!")
	if ev.Failure() {
		mark = faultStyle.Render("x")
	}

	line := ev.Message
	if ev.Action != "" {
		line = ev.Action + ": " + line
	}
	if ev.Path != "" {
		line += " (" + ev.Path + ")"
	}
	if ev.Err != nil {
		line += ": " + ev.Err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "  %s %s\n", mark, line)
}
