package proc

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/josephlewis42/smallsh/core/shell"
)

// RunPipeline runs p.Stage1 with its standard output connected through an
// anonymous pipe to the standard input of p.Stage2. Pipelines always run in
// the foreground; both processes form the foreground job and the outcome
// carries the status of the second stage.
//
// Both programs are resolved and the pipe is created before anything is
// started, so those failures abort the pipeline with nothing executed.
func (l *Launcher) RunPipeline(p shell.Pipeline) (Outcome, error) {
	upstreamPath, err := resolve(p.Stage1)
	if err != nil {
		return Outcome{Status: ExecStatus}, err
	}
	downstreamPath, err := resolve(p.Stage2)
	if err != nil {
		return Outcome{Status: ExecStatus}, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return Outcome{}, &PipeError{Err: err}
	}

	stderr := sharedWriter(l.Stderr)
	upstream := l.command(upstreamPath, p.Stage1)
	upstream.Stdout = w
	upstream.Stderr = stderr
	downstream := l.command(downstreamPath, p.Stage2)
	downstream.Stdin = r
	downstream.Stderr = stderr

	l.signals().Ignore()
	if err := upstream.Start(); err != nil {
		l.signals().Restore()
		r.Close()
		w.Close()
		return startFailed(p.Stage1.Name(), err)
	}
	if err := downstream.Start(); err != nil {
		// Kill only fails if the upstream stage already exited, Wait reaps it
		// either way and its error is the kill.
		_ = upstream.Process.Kill()
		l.signals().Restore()
		r.Close()
		w.Close()
		_ = upstream.Wait()
		return startFailed(p.Stage2.Name(), err)
	}
	job := NewJob(shell.Foreground, upstream.Process, downstream.Process)
	l.Controller.Begin(job)
	l.signals().Restore()

	// Only the children hold live ends now, so the reader sees end of input
	// once the writer exits.
	r.Close()
	w.Close()

	defer l.Controller.End()
	// The pipeline's status is the downstream one.
	_ = upstream.Wait()
	status := wait(downstream)
	return Outcome{Pid: downstream.Process.Pid, Status: status}, nil
}

func resolve(argv shell.Command) (string, error) {
	path, err := exec.LookPath(argv.Name())
	if err != nil {
		return "", startError(argv.Name(), err)
	}
	return path, nil
}

// sharedWriter returns a writer both stages of a pipeline can use. Each
// exec.Cmd copies into a non-file writer from its own goroutine.
func sharedWriter(w io.Writer) io.Writer {
	switch w.(type) {
	case nil, *os.File:
		return w
	default:
		return &lockedWriter{w: w}
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
