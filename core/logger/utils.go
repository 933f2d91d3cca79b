package logger

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogEntry is a single recorded event.
type LogEntry = structpb.Struct

// Entry field names.
const (
	FieldTimestampMicros = "timestamp_micros"
	FieldSessionID       = "session_id"
	FieldType            = "type"
)

// EventType names a kind of recorded event.
type EventType string

const (
	EventRunCommand       EventType = "run_command"
	EventBackgroundLaunch EventType = "background_launch"
	EventPipeline         EventType = "pipeline"
	EventExitStatus       EventType = "exit_status"
	EventSpawnError       EventType = "spawn_error"
	EventExecError        EventType = "exec_error"
	EventPipeError        EventType = "pipe_error"
	EventSyntaxError      EventType = "syntax_error"
	EventDirectoryChange  EventType = "directory_change"
	EventInterrupt        EventType = "interrupt"
)

// Fields holds event specific values. Values must be representable by
// structpb.NewValue; use StringList for string slices.
type Fields map[string]interface{}

// StringList converts a string slice to a structpb compatible list.
func StringList(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell events.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It is safe for concurrent use.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Logger) recordEvent(sessionID string, event EventType, fields Fields) error {
	values := map[string]interface{}{
		FieldTimestampMicros: float64(time.Now().UnixNano() / int64(time.Microsecond)),
		FieldSessionID:       sessionID,
		FieldType:            string(event),
	}
	for k, v := range fields {
		values[k] = v
	}

	le, err := structpb.NewStruct(values)
	if err != nil {
		return err
	}
	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs messages with a shared session ID. A nil SessionLogger
// discards everything.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the attached session ID.
func (l *SessionLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

func (l *SessionLogger) Record(event EventType, fields Fields) error {
	if l == nil || l.Logger == nil {
		return nil
	}
	return l.recordEvent(l.sessionID, event, fields)
}
