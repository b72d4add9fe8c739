// Package logging renders the user-visible progress lines spawn prints
// while loading config, resolving dependencies and emitting the build
// graph: TASK (green), NOTE (blue), HOOK (purple), WARN/ERROR (stderr,
// yellow/red) and FATAL (stderr, red on black, terminates the process).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	taskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hookStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	fatalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Background(lipgloss.Color("0")).Bold(true)
)

// Reporter prints the colored, prefixed lines spawn shows for progress
// and failures. A Reporter is safe for concurrent use: the download worker pool and the
// coordinator goroutine may both hold a reference to the same Reporter.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	color    bool
}

// New builds a Reporter writing to stdout/stderr, auto-detecting color
// support.
func New() *Reporter {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters builds a Reporter against explicit writers, used by tests
// and by any caller that wants to capture output instead of printing it.
func NewWithWriters(out, errOut io.Writer) *Reporter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{out: out, errOut: errOut, color: color}
}

func (r *Reporter) line(w io.Writer, style lipgloss.Style, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.color {
		fmt.Fprintf(w, "%s %s\n", style.Render(prefix+":"), msg)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", prefix, msg)
}

// Task prints a TASK: line (top-level action starting, e.g. "resolving dependencies").
func (r *Reporter) Task(format string, args ...interface{}) {
	r.line(r.out, taskStyle, "TASK", format, args...)
}

// Note prints an informational NOTE: line.
func (r *Reporter) Note(format string, args ...interface{}) {
	r.line(r.out, noteStyle, "NOTE", format, args...)
}

// Hook prints a HOOK: line, reserved for events the downstream build
// executor will act on (e.g. a module layout change it should re-plan for).
func (r *Reporter) Hook(format string, args ...interface{}) {
	r.line(r.out, hookStyle, "HOOK", format, args...)
}

// Warn prints a WARN: line to stderr. Per-artifact resolution/download
// failures are warnings: the offending node is skipped and the run
// continues.
func (r *Reporter) Warn(format string, args ...interface{}) {
	r.line(r.errOut, warnStyle, "WARN", format, args...)
}

// Error prints an ERROR: line to stderr for a failure that aborts the
// current unit of work (one artifact's unpack, one module's emission)
// but not the whole run.
func (r *Reporter) Error(format string, args ...interface{}) {
	r.line(r.errOut, errorStyle, "ERROR", format, args...)
}

// Fatal prints a FATAL: line to stderr and exits the process with status 1.
// Reserved for config and manifest errors, which must abort the run.
func (r *Reporter) Fatal(format string, args ...interface{}) {
	r.line(r.errOut, fatalStyle, "FATAL", format, args...)
	os.Exit(1)
}
