package proc

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// State is the position of the interrupt confirmation protocol.
type State int

const (
	// Idle means no foreground job is active.
	Idle State = iota
	// Running means a foreground job is active and has not been interrupted.
	Running
	// Armed means one interrupt arrived while Running; the next one kills
	// the foreground job.
	Armed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Armed:
		return "armed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Messages printed by the protocol.
const (
	MsgArmed     = "ignoring, confirm with a second interrupt"
	MsgConfirmed = "got it, signalling"
)

// Controller bridges interrupt and quit delivery to foreground job
// cancellation.
//
// It has two dispositions. While a foreground job is being handled (between
// Begin and End) interrupts drive the Idle/Running/Armed state machine. At
// the top level, with no command handling active, an interrupt is passed to
// Terminate, which is expected to end the shell.
//
// Deliver may be called from any goroutine.
type Controller struct {
	// Out receives protocol messages.
	Out io.Writer
	// Paint decorates protocol messages, for example with color.
	Paint func(string) string
	// Terminate handles a signal delivered at the top level.
	Terminate func(sig os.Signal)
	// Observe, if set, is called for every signal handled while a
	// foreground disposition is installed.
	Observe func(sig os.Signal, from, to State)

	mu         sync.Mutex
	state      State
	job        *Job
	foreground bool
}

// NewController creates a controller at the top level writing to out.
func NewController(out io.Writer, terminate func(os.Signal)) *Controller {
	return &Controller{
		Out:       out,
		Terminate: terminate,
	}
}

// Begin registers job as the foreground job, disarms the protocol and
// installs the foreground disposition.
func (c *Controller) Begin(job *Job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.job = job
	c.state = Running
	c.foreground = true
}

// End clears the foreground job and restores the top level disposition.
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.job = nil
	c.state = Idle
	c.foreground = false
}

// State returns the current protocol state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Armed reports whether one interrupt is waiting for confirmation.
func (c *Controller) Armed() bool {
	return c.State() == Armed
}

// Job returns the foreground job or nil.
func (c *Controller) Job() *Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Deliver handles one interrupt or quit signal.
func (c *Controller) Deliver(sig os.Signal) {
	c.mu.Lock()
	if !c.foreground {
		c.mu.Unlock()
		if c.Terminate != nil {
			c.Terminate(sig)
		}
		return
	}
	defer c.mu.Unlock()

	from := c.state
	switch c.state {
	case Idle:
		// The job was already killed; nothing is foregrounded.
	case Running:
		c.say(MsgArmed)
		c.state = Armed
	case Armed:
		c.say(MsgConfirmed)
		if err := c.job.Terminate(); err != nil {
			c.say(fmt.Sprintf("smallsh: %v", err))
		}
		c.job = nil
		c.state = Idle
	}

	if c.Observe != nil {
		c.Observe(sig, from, c.state)
	}
}

func (c *Controller) say(msg string) {
	if c.Out == nil {
		return
	}
	if c.Paint != nil {
		msg = c.Paint(msg)
	}
	fmt.Fprintf(c.Out, "\n%s\n", msg)
}
