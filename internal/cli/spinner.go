package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a message on stderr while objects are being grown. It
// stops drawing as soon as its context is cancelled.
type Spinner struct {
	out     io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc

	stopOnce sync.Once
	finished chan struct{}

	mu    sync.Mutex
	drawn int // width of the last frame written
}

// newSpinnerWithContext returns a spinner bound to ctx. Nothing is drawn
// until Start.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:      os.Stderr,
		message:  message,
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
}

// Start draws frames in the background until Stop or cancellation.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.finished)
	tick := time.NewTicker(spinnerTick)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.erase()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	line := styleSpinnerFrame.Render(frame) + " " + StyleDim.Render(s.message)
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r"+line)
	s.drawn = lipgloss.Width(line)
}

// erase blanks the last frame and returns the cursor to the line start.
func (s *Spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.drawn)+"\r")
	s.drawn = 0
}

// Stop ends the animation and leaves the line blank. Calling it again is a
// no-op.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.finished
	})
}

// Cancelled reports whether the spinner's context has ended, either through
// Stop or its parent.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
