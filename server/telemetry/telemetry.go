// Package telemetry writes log lines and keeps process-wide counters.
// Standard output carries documents, so everything here goes to stderr.
package telemetry

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Counter names.
const (
	Fetches       = "fetches"
	FetchErrors   = "fetch_errors"
	ResolvedLinks = "resolved_links"
	Errors        = "errors"
)

type sink struct {
	mu       sync.Mutex
	logger   *log.Logger
	trace    bool
	counters map[string]int
}

var out = &sink{counters: make(map[string]int)}

func init() {
	SetOutput(os.Stderr)
}

// stamped prefixes each line with a UTC timestamp.
type stamped struct {
	w io.Writer
}

func (s stamped) Write(b []byte) (int, error) {
	if _, err := fmt.Fprint(s.w, time.Now().UTC().Format("2006-01-02 15:04:05")+" "); err != nil {
		return 0, err
	}
	return s.w.Write(b)
}

// SetOutput redirects log lines.
func SetOutput(w io.Writer) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.logger = log.New(stamped{w: w}, "", 0)
}

// SetTrace turns Trace output on or off.
func SetTrace(on bool) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.trace = on
}

func tracing() bool {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.trace
}

func writeLine(line string) {
	out.mu.Lock()
	l := out.logger
	out.mu.Unlock()
	l.Println(line)
}

func Log(format string, args ...any) {
	writeLine(fmt.Sprintf(format, args...))
}

func Trace(format string, args ...any) {
	if tracing() {
		Log(format, args...)
	}
}

func Error(err error, format string, args ...any) {
	writeLine(fmt.Sprintf("ERROR %s [%s]", fmt.Sprintf(format, args...), err))
	Increment(Errors, 1)
}

// Request traces an outgoing HTTP request and what it asked for.
func Request(r *http.Request, format string, args ...any) {
	if tracing() {
		Log("%s %s %s (accept %s)", fmt.Sprintf(format, args...), r.Method, r.URL, r.Header.Get("Accept"))
	}
}

// Increment adds n to a counter; safe from any goroutine.
func Increment(name string, n int) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.counters[name] += n
}

func GetCounter(name string) int {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.counters[name]
}

// Snapshot copies the current counters.
func Snapshot() map[string]int {
	out.mu.Lock()
	defer out.mu.Unlock()
	m := make(map[string]int, len(out.counters))
	for k, v := range out.counters {
		m[k] = v
	}
	return m
}

// LogCounters writes every counter on one line, sorted by name.
func LogCounters() {
	counters := Snapshot()
	if len(counters) == 0 {
		Log("no counters were recorded")
		return
	}
	names := make([]string, 0, len(counters))
	for k := range counters {
		names = append(names, k)
	}
	sort.Strings(names)
	s := make([]string, len(names))
	for i, k := range names {
		s[i] = fmt.Sprintf("%s=%d", k, counters[k])
	}
	Log("%s", strings.Join(s, ", "))
}
