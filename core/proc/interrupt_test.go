package proc

import (
	"os"
	"strings"
	"testing"

	"github.com/josephlewis42/smallsh/core/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestControllerTopLevelTerminates(t *testing.T) {
	var got []os.Signal
	c := NewController(&syncBuffer{}, func(sig os.Signal) {
		got = append(got, sig)
	})

	c.Deliver(unix.SIGINT)
	c.Deliver(unix.SIGQUIT)

	assert.Equal(t, []os.Signal{unix.SIGINT, unix.SIGQUIT}, got)
	assert.Equal(t, Idle, c.State())
}

func TestControllerTransitions(t *testing.T) {
	needCommands(t, "sleep")
	l, _, _ := newTestLauncher(t)

	// Start a real process to act as the foreground job.
	out, err := l.Run(shell.Command{"sleep", "30"}, shell.Background)
	require.NoError(t, err)
	p, err := os.FindProcess(out.Pid)
	require.NoError(t, err)
	defer p.Wait()

	messages := &syncBuffer{}
	terminated := false
	var observed []string
	c := NewController(messages, func(os.Signal) { terminated = true })
	c.Paint = strings.ToUpper
	c.Observe = func(sig os.Signal, from, to State) {
		observed = append(observed, from.String()+"->"+to.String())
	}

	job := NewJob(shell.Foreground, p)
	c.Begin(job)
	assert.Equal(t, Running, c.State())
	assert.Same(t, job, c.Job())

	c.Deliver(unix.SIGINT)
	assert.Equal(t, Armed, c.State())

	c.Deliver(unix.SIGQUIT)
	assert.Equal(t, Idle, c.State())
	assert.Nil(t, c.Job())

	// Still handling the foreground statement: nothing to do.
	c.Deliver(unix.SIGINT)
	assert.Equal(t, Idle, c.State())
	assert.False(t, terminated)

	c.End()
	c.Deliver(unix.SIGINT)
	assert.True(t, terminated)

	assert.Equal(t, []string{"running->armed", "armed->idle", "idle->idle"}, observed)
	assert.Equal(t, "\n"+strings.ToUpper(MsgArmed)+"\n\n"+strings.ToUpper(MsgConfirmed)+"\n", messages.String())
}

func TestControllerBeginDisarms(t *testing.T) {
	c := NewController(&syncBuffer{}, nil)

	c.Begin(NewJob(shell.Foreground))
	c.Deliver(unix.SIGINT)
	require.True(t, c.Armed())
	c.End()
	assert.False(t, c.Armed())

	c.Begin(NewJob(shell.Foreground))
	assert.Equal(t, Running, c.State())
}
