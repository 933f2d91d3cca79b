// Package proc runs commands and two-stage pipelines as child processes and
// implements the interrupt confirmation protocol for foreground jobs.
package proc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/josephlewis42/smallsh/core/shell"
)

// Outcome describes a launched statement. For foreground statements Status
// is the exit status; for background statements only Pid is meaningful.
type Outcome struct {
	Pid        int
	Status     int
	Background bool
}

// Launcher starts child processes wired to the shell's standard streams.
type Launcher struct {
	Controller *Controller
	Signals    Dispositions

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Messages receives background process ids, defaults to Stdout.
	Messages io.Writer
}

// NewLauncher creates a launcher on the process's own standard streams.
func NewLauncher(controller *Controller, signals Dispositions) *Launcher {
	return &Launcher{
		Controller: controller,
		Signals:    signals,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Run starts argv. In the background it reports the new process id and
// returns without waiting. In the foreground it registers the process as the
// foreground job and blocks until that process exits or is killed by a
// confirmed interrupt.
//
// If the program can't be run the outcome carries ExecStatus along with an
// *ExecError. Any other failure to start is a *SpawnError.
func (l *Launcher) Run(argv shell.Command, mode shell.Mode) (Outcome, error) {
	if len(argv) == 0 {
		return Outcome{}, &SpawnError{Err: fmt.Errorf("empty command")}
	}

	cmd := l.command(argv[0], argv)

	l.signals().Ignore()
	err := cmd.Start()
	var job *Job
	if err == nil && mode == shell.Foreground {
		job = NewJob(mode, cmd.Process)
		l.Controller.Begin(job)
	}
	l.signals().Restore()

	if err != nil {
		return startFailed(argv.Name(), err)
	}

	pid := cmd.Process.Pid
	if mode == shell.Background {
		// Background jobs are not tracked or reaped.
		fmt.Fprintf(l.messages(), "[Process id %d]\n", pid)
		return Outcome{Pid: pid, Background: true}, nil
	}

	defer l.Controller.End()
	return Outcome{Pid: pid, Status: wait(cmd)}, nil
}

func (l *Launcher) command(path string, argv shell.Command) *exec.Cmd {
	cmd := exec.Command(path, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	return cmd
}

func (l *Launcher) signals() Dispositions {
	if l.Signals == nil {
		return nopDispositions{}
	}
	return l.Signals
}

func (l *Launcher) messages() io.Writer {
	switch {
	case l.Messages != nil:
		return l.Messages
	case l.Stdout != nil:
		return l.Stdout
	default:
		return io.Discard
	}
}

func startFailed(name string, err error) (Outcome, error) {
	err = startError(name, err)
	if _, ok := err.(*ExecError); ok {
		return Outcome{Status: ExecStatus}, err
	}
	return Outcome{}, err
}

// wait blocks until cmd exits and returns its status. A process killed by a
// signal reports 128 plus the signal number.
func wait(cmd *exec.Cmd) int {
	_ = cmd.Wait()
	return exitStatus(cmd.ProcessState)
}

func exitStatus(state *os.ProcessState) int {
	if state == nil {
		return -1
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

type nopDispositions struct{}

func (nopDispositions) Ignore()  {}
func (nopDispositions) Restore() {}
