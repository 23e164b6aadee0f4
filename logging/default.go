package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
)

// sink holds the writers shared by a logger and everything derived from it
type sink struct {
	out       *log.Logger // Debug, Info
	errOut    *log.Logger // Warn, Error, Fatal
	useColors bool
	exit      func(int)
}

// DefaultLogger writes one line per record on top of the standard log
// package. Debug and Info go to the out writer; Warn, Error and Fatal go to
// errOut, colored yellow, red and bold red when colors are on. Fields are
// printed as sorted key=value pairs, with "component" pulled to the front.
type DefaultLogger struct {
	sink   *sink
	level  Level
	fields Fields
}

// NewDefaultLogger logs to stdout/stderr, coloring when stdout is a terminal
func NewDefaultLogger() *DefaultLogger {
	return NewWriterLogger(os.Stdout, os.Stderr, isTerminal(os.Stdout))
}

// NewDefaultLoggerNoColor logs to stdout/stderr without colors
func NewDefaultLoggerNoColor() *DefaultLogger {
	return NewWriterLogger(os.Stdout, os.Stderr, false)
}

// NewWriterLogger creates a logger that writes Debug/Info to out and
// Warn/Error/Fatal to errOut.
func NewWriterLogger(out, errOut io.Writer, useColors bool) *DefaultLogger {
	return &DefaultLogger{
		sink: &sink{
			out:       log.New(out, "", log.LstdFlags),
			errOut:    log.New(errOut, "", log.LstdFlags),
			useColors: useColors,
			exit:      os.Exit,
		},
		level:  InfoLevel,
		fields: Fields{},
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func (d *DefaultLogger) format(level Level, err error, msg string, extra []Fields) string {
	fields := maps.Clone(d.fields)
	for _, f := range extra {
		maps.Copy(fields, f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", level)
	if component, ok := fields["component"]; ok {
		fmt.Fprintf(&b, "%v: ", component)
		delete(fields, "component")
	}
	b.WriteString(msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, " %s=%v", key, fields[key])
	}

	line := b.String()
	if !d.sink.useColors {
		return line
	}
	switch level {
	case WarnLevel:
		return ColorYellow + line + ColorReset
	case ErrorLevel:
		return ColorRed + line + ColorReset
	case FatalLevel:
		return ColorBold + ColorRed + line + ColorReset
	}
	return line
}

func (d *DefaultLogger) write(level Level, err error, msg string, fields []Fields) {
	if level < d.level {
		return
	}

	line := d.format(level, err, msg, fields)
	if level <= InfoLevel {
		d.sink.out.Println(line)
		return
	}

	d.sink.errOut.Println(line)
	if level == FatalLevel {
		d.sink.exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) { d.write(DebugLevel, nil, msg, fields) }
func (d *DefaultLogger) Info(msg string, fields ...Fields)  { d.write(InfoLevel, nil, msg, fields) }
func (d *DefaultLogger) Warn(msg string, fields ...Fields)  { d.write(WarnLevel, nil, msg, fields) }

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.write(ErrorLevel, err, msg, fields)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.write(FatalLevel, err, msg, fields)
}

// WithFields returns a child sharing the parent's writers
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := maps.Clone(d.fields)
	maps.Copy(merged, fields)
	return &DefaultLogger{sink: d.sink, level: d.level, fields: merged}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}

// NoOpLogger discards everything. SetGlobalLogger(nil) installs one.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
