package proc

import (
	"errors"
	"os"

	"github.com/josephlewis42/smallsh/core/shell"
	"golang.org/x/sys/unix"
)

// Job is a set of processes launched by one statement: a single command or
// both stages of a pipeline.
type Job struct {
	Mode  shell.Mode
	procs []*os.Process
}

// NewJob groups processes into a job.
func NewJob(mode shell.Mode, procs ...*os.Process) *Job {
	return &Job{Mode: mode, procs: procs}
}

// Pids returns the process ids of the job in launch order.
func (j *Job) Pids() []int {
	out := make([]int, 0, len(j.procs))
	for _, p := range j.procs {
		out = append(out, p.Pid)
	}
	return out
}

// Terminate sends SIGTERM to every process of the job. Processes that have
// already exited are skipped.
func (j *Job) Terminate() error {
	var lastErr error
	for _, p := range j.procs {
		if err := p.Signal(unix.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			lastErr = err
		}
	}
	return lastErr
}
