package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/jmendel/docpack/build"
	"github.com/schollz/progressbar/v3"
)

// reporter renders build progress either as a terminal bar or, with
// --no-progress, as plain lines suitable for CI logs. Events arrive
// from concurrent docset builds, so every handler is mutex-guarded.
type reporter struct {
	out   io.Writer
	plain bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newReporter(out io.Writer, plain bool) *reporter {
	return &reporter{out: out, plain: plain}
}

// handle is a build.ProgressFunc.
func (r *reporter) handle(event build.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plain {
		r.handlePlain(event)
		return
	}

	switch event.Type {
	case build.ProgressStarted:
		r.bar = progressbar.NewOptions(event.Total,
			progressbar.OptionSetDescription("building"),
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	case build.ProgressPage:
		r.bar.Describe(fmt.Sprintf("%s %d/%d", event.Slug, event.Completed, event.Total))
	case build.ProgressSkipped:
		r.bar.Describe(event.Slug + " already exists")
		_ = r.bar.Add(1)
	case build.ProgressCompleted:
		r.bar.Describe(event.Slug)
		_ = r.bar.Add(1)
	case build.ProgressFailed:
		r.bar.Describe(event.Slug + " failed")
	case build.ProgressFinished:
		_ = r.bar.Finish()
	}
}

func (r *reporter) handlePlain(event build.ProgressEvent) {
	switch event.Type {
	case build.ProgressStarted:
		fmt.Fprintf(r.out, "Building %d docsets\n", event.Total)
	case build.ProgressSkipped:
		fmt.Fprintf(r.out, "[%d/%d] %s already exists\n", event.Completed, event.Total, event.Slug)
	case build.ProgressCompleted:
		fmt.Fprintf(r.out, "[%d/%d] %s\n", event.Completed, event.Total, event.Slug)
	case build.ProgressFailed:
		fmt.Fprintf(r.out, "failed %s: %v\n", event.Slug, event.Error)
	}
}

// close tears the bar down after a run that ended early, so a failure
// message does not print into a half-drawn bar.
func (r *reporter) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Close()
		r.bar = nil
	}
}
