// Package spinner shows a one-line progress indicator on a terminal while a
// long step (catalog download, vector space construction) runs.
//
// All methods are safe on a nil *Spinner, so callers can hold the result of
// ForWriter without checking whether output is a terminal.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const delay = 80 * time.Millisecond

// Spinner redraws "<frame> <message> (<elapsed>)" on a single line.
type Spinner struct {
	writer  io.Writer
	mu      sync.Mutex
	message string
	started time.Time
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a stopped spinner writing to w.
func New(w io.Writer, message string) *Spinner {
	return &Spinner{writer: w, message: message}
}

// ForWriter returns a spinner for w, or nil when w is not an interactive
// terminal or quiet is set.
func ForWriter(w io.Writer, message string, quiet bool) *Spinner {
	if quiet || !IsTerminal(w) {
		return nil
	}
	return New(w, message)
}

// Start begins drawing until Stop is called or ctx is done. Starting a running
// spinner does nothing.
func (s *Spinner) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.started = time.Now()
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop halts the spinner and clears its line. Stopping an idle spinner does nothing.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	s.wg.Wait()

	if IsTerminal(s.writer) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// Step replaces the message shown next to the frame.
func (s *Spinner) Step(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// active reports whether the spinner is drawing.
func (s *Spinner) active() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Spinner) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		message, elapsed := s.message, time.Since(s.started)
		s.mu.Unlock()
		fmt.Fprintf(s.writer, "\r%s %s (%.1fs)", frames[i%len(frames)], message, elapsed.Seconds())

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
