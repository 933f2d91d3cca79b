package proc

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// InterruptSignals are the signals driving the interrupt protocol.
var InterruptSignals = []os.Signal{unix.SIGINT, unix.SIGQUIT}

// Dispositions switches how the shell receives InterruptSignals around
// process creation. A child started between Ignore and Restore inherits the
// ignored disposition through exec, so an interrupt typed at the terminal
// reaches only the shell's protocol and never kills the child directly.
type Dispositions interface {
	Ignore()
	Restore()
}

// OSSignals delivers InterruptSignals of the running process on a channel.
type OSSignals struct {
	ch chan os.Signal
}

var _ Dispositions = (*OSSignals)(nil)

// NewOSSignals starts receiving InterruptSignals.
func NewOSSignals() *OSSignals {
	s := &OSSignals{ch: make(chan os.Signal, 4)}
	s.Restore()
	return s
}

// C returns the delivery channel.
func (s *OSSignals) C() <-chan os.Signal {
	return s.ch
}

// Ignore implements Dispositions.Ignore. Signals arriving until Restore are
// dropped.
func (s *OSSignals) Ignore() {
	signal.Ignore(InterruptSignals...)
}

// Restore implements Dispositions.Restore.
func (s *OSSignals) Restore() {
	signal.Notify(s.ch, InterruptSignals...)
}

// Stop stops delivery and returns the signals to their default behavior.
func (s *OSSignals) Stop() {
	signal.Stop(s.ch)
	signal.Reset(InterruptSignals...)
}

// Dispatch hands every signal from signals to c until ctx is done.
func Dispatch(ctx context.Context, signals <-chan os.Signal, c *Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			c.Deliver(sig)
		}
	}
}
