package core

import (
	"io"
	"strings"
)

// ByteLineReader reads lines one byte at a time so none of the input after
// a line is consumed. Commands run from the line share the same input and
// read the rest of it themselves.
type ByteLineReader struct {
	r   io.Reader
	buf [1]byte
}

var _ LineReader = (*ByteLineReader)(nil)

// NewByteLineReader creates a prompt-less reader over r.
func NewByteLineReader(r io.Reader) *ByteLineReader {
	return &ByteLineReader{r: r}
}

// Readline returns the next line without its newline. A final line without
// a newline is returned before io.EOF.
func (b *ByteLineReader) Readline() (string, error) {
	var line strings.Builder
	for {
		n, err := b.r.Read(b.buf[:])
		if n == 1 {
			if b.buf[0] == '\n' {
				return line.String(), nil
			}
			line.WriteByte(b.buf[0])
			continue
		}

		switch {
		case err == io.EOF && line.Len() > 0:
			return line.String(), nil
		case err != nil:
			return "", err
		}
	}
}

// SetPrompt implements LineReader, non-interactive input has no prompt.
func (b *ByteLineReader) SetPrompt(string) {}

func (b *ByteLineReader) Close() error {
	return nil
}
