// Package log wraps logrus with the process-wide logger used by the CLI.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var DefaultLogger = New(Options{})

type Options struct {
	Level  string
	Format string
	// Path appends to a file instead of writing to stderr.
	Path   string
	Output io.Writer
}

type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

func New(o Options) *Logger {
	l := logrus.New()
	if o.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	if o.Output != nil {
		l.SetOutput(o.Output)
	}

	var file *os.File
	if o.Path != "" {
		f, err := os.OpenFile(o.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err == nil {
			l.SetOutput(f)
			file = f
		} else {
			l.WithError(err).Warn("cannot open log file, using stderr")
		}
	}

	lg := &Logger{entry: logrus.NewEntry(l), file: file}
	lg.SetLevel(o.Level)
	return lg
}

// Entry exposes the underlying logrus entry for packages that take one.
func (l *Logger) Entry() *logrus.Entry { return l.entry }

func (l *Logger) Debug(s string) { l.entry.Debug(s) }
func (l *Logger) Info(s string)  { l.entry.Info(s) }
func (l *Logger) Warn(s string)  { l.entry.Warn(s) }
func (l *Logger) Error(s string) { l.entry.Error(s) }

func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// SetLevel ignores unknown level names.
func (l *Logger) SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	l.entry.Logger.SetLevel(lvl)
}

func (l *Logger) Destroy() {
	if l.file != nil {
		l.file.Close()
	}
}

// Init replaces DefaultLogger.
func Init(o Options) {
	DefaultLogger = New(o)
}

func Destroy() { DefaultLogger.Destroy() }

func Debug(s string) { DefaultLogger.Debug(s) }
func Info(s string)  { DefaultLogger.Info(s) }
func Warn(s string)  { DefaultLogger.Warn(s) }
func Error(s string) { DefaultLogger.Error(s) }

func With(fields map[string]any) *Logger { return DefaultLogger.With(fields) }

func Entry() *logrus.Entry { return DefaultLogger.Entry() }
