package errors

import (
	"bytes"
	"fmt"
	"maps"
	"runtime"
	"sync/atomic"
	"text/template"
	"time"
)

type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		Code:      c,
		Message:   msg,
		Details:   make(map[string]any),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

func WithPrefix(prefix string) func() Code {
	var counter atomic.Int64
	return func() Code {
		return Code(fmt.Sprintf("%s_%04d", prefix, counter.Add(1)))
	}
}

type Error struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
	Stack     string         `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

// WithCause derives a new error; the receiver is left untouched so
// package-level sentinels stay safe to share between goroutines.
func (e *Error) WithCause(err error) *Error {
	d := e.clone()
	d.Cause = err
	return d
}

func (e *Error) WithDetail(key string, value any) *Error {
	d := e.clone()
	d.Details[key] = value
	return d
}

func (e *Error) clone() *Error {
	d := *e
	d.Details = make(map[string]any, len(e.Details)+1)
	maps.Copy(d.Details, e.Details)
	return &d
}

// Is matches by code, so derived errors still satisfy errors.Is
// against the sentinel they were derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) Error() string {
	msg := e.render()
	if msg == "" {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) render() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = e.Message
		}
	}()

	t, err := template.New("error").Parse(e.Message)
	if err != nil {
		return e.Message
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, e.Details); err != nil {
		return e.Message
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func captureStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
