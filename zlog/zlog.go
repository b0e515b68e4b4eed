package zlog

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type Priority int
type StackAdjust int

const (
	Verbose Priority = iota
	DebugLevel
	InfoLevel
	WarningLevel
	ErrorLevel
	FatalLevel
)

const (
	escYellow  = "\x1B[33m"
	escMagenta = "\x1B[35m"
	escCyan    = "\x1B[36m"
	escNoColor = "\x1b[0m"
)

var (
	PrintPriority = InfoLevel
	UseColor      = false
	ExitFunc      = os.Exit
)

var (
	outputLock sync.Mutex
	output     io.Writer = os.Stdout
)

var (
	hookingLock sync.Mutex
	outputHooks = map[string]func(s string){}
	hooking     = false
)

// SetOutput sets where log lines are printed, os.Stdout by default.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	output = w
	outputLock.Unlock()
}

// Error logs err (which may be nil) and parts, returning them as one error.
func Error(err error, parts ...any) error {
	return baseLog(err, ErrorLevel, 4, parts...)
}

// Fatal logs and exits via ExitFunc.
func Fatal(err error, parts ...any) error {
	return baseLog(err, FatalLevel, 4, parts...)
}

func Warn(parts ...any) {
	baseLog(nil, WarningLevel, 4, parts...)
}

func Info(parts ...any) {
	baseLog(nil, InfoLevel, 4, parts...)
}

func Debug(parts ...any) {
	baseLog(nil, DebugLevel, 4, parts...)
}

// NewError makes an error of parts. If the first part is an error, it is wrapped.
func NewError(parts ...any) error {
	var err error
	if len(parts) > 0 {
		err, _ = parts[0].(error)
		if err != nil {
			parts = parts[1:]
		}
	}
	p := strings.TrimSpace(fmt.Sprintln(parts...))
	if err != nil {
		if p == "" {
			return err
		}
		return errors.Wrap(err, p)
	}
	return errors.New(p)
}

func Wrap(err error, parts ...any) error {
	p := strings.TrimSpace(fmt.Sprintln(parts...))
	return errors.Wrap(err, p)
}

func baseLog(err error, priority Priority, pos int, parts ...any) error {
	if len(parts) != 0 {
		n, got := parts[0].(StackAdjust)
		if got {
			parts = parts[1:]
			pos += int(n)
		}
	}
	if err != nil {
		parts = append([]any{err}, parts...)
	}
	err = NewError(parts...)
	if priority < PrintPriority {
		return err
	}
	col := ""
	endCol := ""
	if UseColor {
		if priority >= ErrorLevel {
			col = escMagenta
			endCol = escNoColor
		} else if priority >= WarningLevel {
			col = escYellow
			endCol = escNoColor
		}
	}
	finfo := time.Now().Local().Format("15:04:05/02 ")
	if UseColor {
		finfo = escCyan + finfo + escNoColor
	}
	if priority != InfoLevel {
		finfo += CallingFunctionString(pos) + ": "
	}
	if priority == FatalLevel {
		finfo += "\nFatal: "
	}
	str := finfo + err.Error() + "\n"

	outputLock.Lock()
	fmt.Fprintln(output, finfo+col+err.Error()+endCol)
	outputLock.Unlock()
	callHooks(str)

	if priority == FatalLevel {
		ExitFunc(1)
	}
	return err
}

func CallingFunctionInfo(pos int) (function, file string, line int) {
	pc, file, line, ok := runtime.Caller(pos)
	if ok {
		function = runtime.FuncForPC(pc).Name()
	}
	return
}

// CallingFunctionString returns "file:line function()" for the caller pos frames up.
func CallingFunctionString(pos int) string {
	function, file, line := CallingFunctionInfo(pos)
	if function == "" {
		return ""
	}
	_, function = path.Split(function)
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}
	return fmt.Sprintf("%s:%d %s()", file, line, function)
}

func OnError(err error, parts ...any) bool {
	if err != nil {
		parts = append([]any{StackAdjust(1)}, parts...)
		Error(err, parts...)
		return true
	}
	return false
}

func AssertNotError(err error, parts ...any) {
	if err != nil {
		parts = append([]any{StackAdjust(1)}, parts...)
		Fatal(err, parts...)
	}
}

// callHooks passes str to every hook. Lines logged while hooks are running,
// including by a hook itself, aren't passed on.
func callHooks(str string) {
	hookingLock.Lock()
	if hooking || len(outputHooks) == 0 {
		hookingLock.Unlock()
		return
	}
	hooking = true
	hooks := make([]func(s string), 0, len(outputHooks))
	for _, f := range outputHooks {
		hooks = append(hooks, f)
	}
	hookingLock.Unlock()

	for _, f := range hooks {
		f(str)
	}

	hookingLock.Lock()
	hooking = false
	hookingLock.Unlock()
}

// AddHook calls call with every printed line.
func AddHook(id string, call func(s string)) {
	hookingLock.Lock()
	outputHooks[id] = call
	hookingLock.Unlock()
}

func RemoveHook(id string) {
	hookingLock.Lock()
	delete(outputHooks, id)
	hookingLock.Unlock()
}
