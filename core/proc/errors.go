package proc

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ExecStatus is the exit status of a command whose program could not be run.
const ExecStatus = 127

// SpawnError reports that no process could be created for a command.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: cannot create process: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExecError reports that the requested program could not be run. Callers
// observe it as exit status ExecStatus.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// PipeError reports that the pipe joining the stages of a pipeline could not
// be created.
type PipeError struct {
	Err error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("pipe: %v", e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// startError sorts a failed exec.Cmd.Start into ExecError (the program
// itself is unusable) or SpawnError (the system refused a new process).
func startError(name string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return &ExecError{Name: name, Err: execErr.Err}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ENOENT, unix.EACCES, unix.ENOEXEC, unix.ENOTDIR, unix.EISDIR:
			return &ExecError{Name: name, Err: errno}
		}
	}

	return &SpawnError{Name: name, Err: err}
}
