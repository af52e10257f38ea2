// Package nlog is rwfgo's logger: timestamped, leveled writes to an
// io.Writer (stderr by default), one unbuffered write per line. Modeled on aistore's cmn/nlog but
// trimmed to what a library needs — no file rotation, no flag wiring,
// since this module never owns a process's log files.
package nlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var sevTag = [...]string{sevInfo: "I", sevWarn: "W", sevErr: "E"}

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// SetOutput redirects all subsequent log lines; nil resets to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

func log(sev severity, format string, args ...any) {
	var msg string
	if format == "" {
		msg = fmt.Sprintln(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg += "\n"
		}
	}
	ts := time.Now().Format("0102 15:04:05.000000")
	mu.Lock()
	fmt.Fprintf(out, "%s %s %s", sevTag[sev], ts, msg)
	mu.Unlock()
}

func Infoln(args ...any)                  { log(sevInfo, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, format, args...) }
func Warningln(args ...any)               { log(sevWarn, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, format, args...) }
func Errorln(args ...any)                 { log(sevErr, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, format, args...) }
