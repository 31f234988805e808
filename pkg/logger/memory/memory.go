package memory

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	Keyvals []any
}

// String renders the entry as "LEVEL message key=value ...".
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Level)
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for i := 0; i+1 < len(e.Keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Keyvals[i], e.Keyvals[i+1])
	}
	return b.String()
}

// Recorder keeps log calls in memory. Fatal is recorded and does not exit.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level, message string, keyvals []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message, Keyvals: keyvals})
}

func (r *Recorder) Log(message string, keyvals ...any)   { r.record("LOG", message, keyvals) }
func (r *Recorder) Debug(message string, keyvals ...any) { r.record("DEBUG", message, keyvals) }
func (r *Recorder) Info(message string, keyvals ...any)  { r.record("INFO", message, keyvals) }
func (r *Recorder) Warn(message string, keyvals ...any)  { r.record("WARN", message, keyvals) }
func (r *Recorder) Error(message string, keyvals ...any) { r.record("ERROR", message, keyvals) }
func (r *Recorder) Fatal(message string, keyvals ...any) { r.record("FATAL", message, keyvals) }

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Contains reports whether any entry's message contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
