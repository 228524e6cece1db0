package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level int

const (
	FATAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var levelNames = map[Level]string{
	FATAL:   "fatal",
	ERROR:   "error",
	WARNING: "warn",
	INFO:    "",
	DEBUG:   "debug",
}

type Record struct {
	Level     Level
	Component string
	Message   string
}

const (
	CLEARLINE = "\x1b[2K"
)

func Debugf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{DEBUG, "", fmt.Sprintf(msg, args...)})
}

func Infof(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{INFO, "", fmt.Sprintf(msg, args...)})
}

func Warnf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{WARNING, "", fmt.Sprintf(msg, args...)})
}

func Errorf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{ERROR, "", fmt.Sprintf(msg, args...)})
}

// Progress prints msg on the current terminal line. The next record
// clears it. Progress is suppressed in quiet mode.
func Progress(msg string) {
	defaultLogBroker.progress(msg)
}

func SetQuiet(quiet bool) {
	defaultLogBroker.mu.Lock()
	defaultLogBroker.quiet = quiet
	defaultLogBroker.mu.Unlock()
}

func SetDebug(debug bool) {
	defaultLogBroker.mu.Lock()
	defaultLogBroker.debug = debug
	defaultLogBroker.mu.Unlock()
}

// SetOutput redirects all records. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	defaultLogBroker.mu.Lock()
	defer defaultLogBroker.mu.Unlock()
	prev := defaultLogBroker.out
	defaultLogBroker.out = w
	defaultLogBroker.lastProgress = ""
	defaultLogBroker.newline = true
	return prev
}

type Logger struct {
	Component string
}

func (l *Logger) Print(args ...interface{}) {
	defaultLogBroker.record(Record{INFO, l.Component, fmt.Sprint(args...)})
}

func (l *Logger) Printf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{INFO, l.Component, fmt.Sprintf(msg, args...)})
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{DEBUG, l.Component, fmt.Sprintf(msg, args...)})
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{ERROR, l.Component, fmt.Sprintf(msg, args...)})
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{WARNING, l.Component, fmt.Sprintf(msg, args...)})
}

// Fatalf logs the message, flushes the log and exits with status 1.
func (l *Logger) Fatalf(msg string, args ...interface{}) {
	defaultLogBroker.record(Record{FATAL, l.Component, fmt.Sprintf(msg, args...)})
	Shutdown()
	os.Exit(1)
}

func (l *Logger) StartStep(msg string) string {
	defaultLogBroker.startStep(Step{l.Component, msg})
	return msg
}

func (l *Logger) StopStep(msg string) {
	defaultLogBroker.stopStep(Step{l.Component, msg})
}

func NewLogger(component string) *Logger {
	return &Logger{component}
}

type Step struct {
	Component string
	Name      string
}

type LogBroker struct {
	mu           sync.Mutex
	out          io.Writer
	steps        map[Step]time.Time
	quiet        bool
	debug        bool
	newline      bool
	lastProgress string
}

func (l *LogBroker) record(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Level == DEBUG && !l.debug {
		return
	}
	l.printRecord(r)
}

func (l *LogBroker) progress(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.quiet {
		return
	}
	l.printProgress(msg)
}

func (l *LogBroker) startStep(step Step) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps[step] = time.Now()
	if !l.quiet {
		l.printProgress(step.Name)
	}
}

func (l *LogBroker) stopStep(step Step) {
	l.mu.Lock()
	defer l.mu.Unlock()
	startTime, ok := l.steps[step]
	if !ok {
		return
	}
	delete(l.steps, step)
	l.lastProgress = ""
	duration := time.Since(startTime)
	l.printRecord(Record{INFO, step.Component, step.Name + " took: " + duration.String()})
}

func (l *LogBroker) printPrefix() {
	fmt.Fprint(l.out, "[", time.Now().Format(time.Stamp), "] ")
}

func (l *LogBroker) printComponent(component string) {
	if component != "" {
		fmt.Fprint(l.out, "[", component, "] ")
	}
}

func (l *LogBroker) printLevel(level Level) {
	if name := levelNames[level]; name != "" {
		fmt.Fprint(l.out, "[", name, "] ")
	}
}

func (l *LogBroker) printRecord(record Record) {
	if !l.newline {
		fmt.Fprint(l.out, CLEARLINE)
	}
	l.printPrefix()
	l.printComponent(record.Component)
	l.printLevel(record.Level)
	fmt.Fprintln(l.out, record.Message)
	l.newline = true
	if l.lastProgress != "" && !l.quiet {
		l.printProgress(l.lastProgress)
	}
}

func (l *LogBroker) printProgress(progress string) {
	l.printPrefix()
	fmt.Fprint(l.out, progress)
	fmt.Fprint(l.out, "\r")
	l.lastProgress = progress
	l.newline = false
}

// Shutdown terminates a pending progress line.
func Shutdown() {
	defaultLogBroker.mu.Lock()
	defer defaultLogBroker.mu.Unlock()
	if !defaultLogBroker.newline {
		fmt.Fprintln(defaultLogBroker.out)
		defaultLogBroker.newline = true
	}
	defaultLogBroker.lastProgress = ""
}

var defaultLogBroker = &LogBroker{
	out:     os.Stdout,
	steps:   make(map[Step]time.Time),
	newline: true,
}
