// Package log writes log messages to stdout and to daily log files.
//
// Files live in per-kind sub-directories of Config.Dir:
// log/YYYY-MM-DD.txt for messages, errors/ for errors and events/ for events.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/toon-format/toon-go"
)

var (
	log       *dailyFile
	errorsLog *dailyFile
	eventsLog *dailyFile

	// if true, Verbosef() will log messages
	Verbose bool
)

// dailyFile appends to <Dir>/YYYY-MM-DD.txt, switching files when the UTC day changes
type dailyFile struct {
	Dir string

	mu   sync.Mutex
	day  string
	file *os.File
}

func dayFilePath(dir string, t time.Time) string {
	return filepath.Join(dir, t.UTC().Format(time.DateOnly)+".txt")
}

// Write appends d to the file of the current day. No-op on nil receiver.
func (w *dailyFile) Write(d []byte) error {
	if w == nil {
		return nil
	}
	now := time.Now()
	day := now.UTC().Format(time.DateOnly)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil && w.day != day {
		f := w.file
		w.file = nil
		if err := f.Close(); err != nil {
			return err
		}
	}
	if w.file == nil {
		if err := os.MkdirAll(w.Dir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(dayFilePath(w.Dir, now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		w.file, w.day = f, day
	}
	_, err := w.file.Write(d)
	return err
}

// Close syncs and closes the current file. No-op on nil receiver.
func (w *dailyFile) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file, w.day = nil, ""
	_ = f.Sync()
	return f.Close()
}

type Config struct {
	// directory where log files are stored
	// if empty, we only log to stdout
	Dir string
}

// Init initializes logging to files in config.Dir
func Init(config *Config) {
	Close()
	if config == nil || config.Dir == "" {
		return
	}
	dir := config.Dir
	log = &dailyFile{Dir: filepath.Join(dir, "log")}
	errorsLog = &dailyFile{Dir: filepath.Join(dir, "errors")}
	// doesn't create files until first Event()
	eventsLog = &dailyFile{Dir: filepath.Join(dir, "events")}
}

// closeDaily closes wd and sets it to nil
func closeDaily(wd **dailyFile) {
	if *wd == nil {
		return
	}
	(*wd).Close()
	*wd = nil
}

func Close() {
	closeDaily(&log)
	closeDaily(&errorsLog)
	closeDaily(&eventsLog)
}

func Logf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	fmt.Print(s)
	log.Write([]byte(s))
}

func Verbosef(format string, args ...any) {
	if !Verbose {
		return
	}
	Logf(format, args...)
}

func GetCallstack(skip int) string {
	var callers [32]uintptr
	n := runtime.Callers(skip+2, callers[:])
	frames := runtime.CallersFrames(callers[:n])
	var cs []string
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			cs = append(cs, frame.File+":"+strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}
	return strings.Join(cs, "\n")
}

// Errorf logs an error message along with the callstack
func Errorf(s string, args ...any) {
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	cs := GetCallstack(1)
	s = fmt.Sprintf("%s\n%s\n", s, cs)
	fmt.Fprint(os.Stderr, s)
	log.Write([]byte(s))
	errorsLog.Write([]byte(s))
}

// IfErrf logs err and returns true if err != nil
// IfErrf(err) => logs err.Error()
// IfErrf(err, "error is: %v", err) => logs message formatted
func IfErrf(err error, a ...any) bool {
	if err == nil {
		return false
	}
	if len(a) == 0 {
		Errorf("%s", err.Error())
		return true
	}
	s, ok := a[0].(string)
	if !ok {
		s = fmt.Sprintf("%s", a[0])
	}
	if len(a) > 1 {
		s = fmt.Sprintf(s, a[1:]...)
	}
	Errorf("%s", s)
	return true
}

// MarshalEvent serializes an event as a header line:
// "<len> <unix ms> <name>\n" followed by toon-encoded key/values and "\n"
func MarshalEvent(name string, t time.Time, vals ...any) ([]byte, error) {
	n := len(vals)
	if n%2 != 0 {
		return nil, fmt.Errorf("odd number of values (%d) in event '%s'", n, name)
	}
	var d []byte
	if n > 0 {
		m := map[string]any{}
		for i := 0; i < n; i += 2 {
			k, ok := vals[i].(string)
			if !ok {
				return nil, fmt.Errorf("event '%s': key %v is not a string", name, vals[i])
			}
			m[k] = vals[i+1]
		}
		var err error
		d, err = toon.Marshal(m)
		if err != nil {
			return nil, err
		}
	}
	hdr := fmt.Sprintf("%d %d %s\n", len(d), t.UTC().UnixMilli(), name)
	res := append([]byte(hdr), d...)
	return append(res, '\n'), nil
}

// Event records a named event with key/value pairs to the events log
func Event(name string, vals ...any) {
	d, err := MarshalEvent(name, time.Now(), vals...)
	if err != nil {
		Errorf("log.Event: %s", err)
		return
	}
	eventsLog.Write(d)
}
