// Copyright 2026 metadump contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a minimal leveled logger used by the loader. It exists
// because the loader must own its own log sink rather than writing to a
// process-wide buffer: the caller decides where the drained lines end up
// (stdout on success, stderr on failure) and when.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

// Severities, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the base sink. Log receives a severity and alternating
// key/value pairs, the last of which is conventionally "msg".
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// buffer is an in-memory Logger that never fails a write and keeps
// lines in order, so the caller can drain the whole run after the fact.
type buffer struct {
	mu    sync.Mutex
	lines []string
}

// NewBuffer returns a Logger that appends every record to an internal,
// caller-drainable line buffer.
func NewBuffer() *Buffered {
	return &Buffered{buf: &buffer{}}
}

// Buffered is a Logger backed by an in-memory line buffer.
type Buffered struct {
	buf *buffer
}

// Log implements Logger.
func (b *Buffered) Log(level Level, keyvals ...interface{}) error {
	line := format(level, keyvals...)
	b.buf.mu.Lock()
	b.buf.lines = append(b.buf.lines, line)
	b.buf.mu.Unlock()
	return nil
}

// Lines returns every line logged so far, in order.
func (b *Buffered) Lines() []string {
	b.buf.mu.Lock()
	defer b.buf.mu.Unlock()
	out := make([]string, len(b.buf.lines))
	copy(out, b.buf.lines)
	return out
}

// String joins every line logged so far with newlines.
func (b *Buffered) String() string {
	return strings.Join(b.Lines(), "\n")
}

// WriteTo drains the buffer to w, one record per line.
func (b *Buffered) WriteTo(w io.Writer) (int64, error) {
	s := b.String()
	if s == "" {
		return 0, nil
	}
	n, err := io.WriteString(w, s+"\n")
	return int64(n), err
}

// stdLogger writes every record directly to an io.Writer as it arrives.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes every record to w immediately.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	line := format(level, keyvals...)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a filter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a record must meet to pass through.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.min = level }
}

// NewFilter wraps next with a minimum-level gate.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper is a leveled convenience wrapper over a Logger, mirroring the
// Errorf/Warnf/Infof/Debugf call sites the loader uses throughout.
type Helper struct {
	logger Logger
}

// NewHelper returns a Helper writing through logger.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) logf(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, "msg", fmt.Sprintf(format, args...))
}

// Debugf logs at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) { h.logf(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (h *Helper) Infof(format string, args ...interface{}) { h.logf(LevelInfo, format, args...) }

// Warnf logs at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) { h.logf(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) { h.logf(LevelError, format, args...) }

func format(level Level, keyvals ...interface{}) string {
	msg := ""
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == "msg" {
			msg, _ = keyvals[i+1].(string)
		}
	}
	return fmt.Sprintf("[%s] %s", level, msg)
}
