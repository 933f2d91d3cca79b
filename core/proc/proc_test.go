package proc

import (
	"bytes"
	"os/exec"
	"strconv"
	"sync"
	"testing"
)

// needCommands skips the test unless every program is on the PATH.
func needCommands(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

// recordingDispositions counts disposition switches.
type recordingDispositions struct {
	mu       sync.Mutex
	ignored  int
	restored int
}

func (r *recordingDispositions) Ignore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignored++
}

func (r *recordingDispositions) Restore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restored++
}

func (r *recordingDispositions) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignored, r.restored
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(b)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newTestLauncher(t *testing.T) (*Launcher, *recordingDispositions, *syncBuffer) {
	t.Helper()

	messages := &syncBuffer{}
	signals := &recordingDispositions{}
	l := &Launcher{
		Controller: NewController(messages, nil),
		Signals:    signals,
		Messages:   messages,
	}
	return l, signals, messages
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
