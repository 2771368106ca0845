package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Recorder collects JSON log output for assertions in tests.
type Recorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecorder returns a debug-level JSON logger writing into a new Recorder.
func NewRecorder() (*slog.Logger, *Recorder) {
	rec := &Recorder{}
	return slog.New(slog.NewJSONHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug})), rec
}

// RecordingContext returns a background context carrying a recorded logger.
func RecordingContext() (context.Context, *Recorder) {
	l, rec := NewRecorder()
	return WithLogger(context.Background(), l), rec
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Entries decodes every recorded line, failing t on malformed output.
func (r *Recorder) Entries(t testing.TB) []map[string]any {
	t.Helper()

	var entries []map[string]any
	sc := bufio.NewScanner(strings.NewReader(r.String()))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// HasField reports whether some entry sets field to want.
func (r *Recorder) HasField(t testing.TB, field string, want any) bool {
	t.Helper()
	for _, e := range r.Entries(t) {
		if v, ok := e[field]; ok && v == want {
			return true
		}
	}
	return false
}
