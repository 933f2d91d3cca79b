package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// EntryType returns the event type of an entry.
func EntryType(le *LogEntry) EventType {
	return EventType(stringField(le, FieldType))
}

func stringField(le *LogEntry, name string) string {
	return le.GetFields()[name].GetStringValue()
}

// commandName returns the program name of the "command" field.
func commandName(le *LogEntry) string {
	values := le.GetFields()["command"].GetListValue().GetValues()
	if len(values) == 0 {
		return ""
	}
	return values[0].GetStringValue()
}

func NewReport() *Report {
	return &Report{
		Errors: NewPathCounter("type", "command", "error"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries int        `json:"log_entries"`
	Sessions   StrCounter `json:"sessions"`
	EventTypes StrCounter `json:"event_types"`

	CommandNames       StrCounter   `json:"command_names"`
	BackgroundCommands StrCounter   `json:"background_commands"`
	ExitStatuses       StrCounter   `json:"exit_statuses"`
	Interrupts         StrCounter   `json:"interrupts"`
	Errors             *PathCounter `json:"errors"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.Sessions.Increment(stringField(le, FieldSessionID))

	event := EntryType(le)
	r.EventTypes.Increment(string(event))

	switch event {
	case EventRunCommand:
		r.CommandNames.Increment(commandName(le))
	case EventBackgroundLaunch:
		r.BackgroundCommands.Increment(commandName(le))
	case EventPipeline:
		for _, stage := range []string{"stage1", "stage2"} {
			values := le.GetFields()[stage].GetListValue().GetValues()
			if len(values) > 0 {
				r.CommandNames.Increment(values[0].GetStringValue())
			}
		}
	case EventExitStatus:
		r.ExitStatuses.Increment(fmt.Sprintf("%d", int(le.GetFields()["status"].GetNumberValue())))
	case EventInterrupt:
		r.Interrupts.Increment(fmt.Sprintf("%s: %s -> %s",
			stringField(le, "signal"), stringField(le, "from"), stringField(le, "to")))
	case EventSpawnError, EventExecError, EventPipeError, EventSyntaxError, EventDirectoryChange:
		if errMsg := stringField(le, "error"); errMsg != "" {
			r.Errors.Increment(string(event), commandName(le), errMsg)
		}
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
