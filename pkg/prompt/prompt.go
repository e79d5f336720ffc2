// Package prompt supplies verification codes to the publish workflow.
//
// The portal sends an SMS code mid-publish and the workflow cannot continue
// until a human reads it off their phone. Each provider here is one way to
// hand that code over: an interactive terminal prompt, a line from any
// reader, or a value known up front.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrCancelled is returned when the user dismisses the prompt.
var ErrCancelled = errors.New("prompt: cancelled")

// Func adapts a function to a code provider.
type Func func(ctx context.Context) (string, error)

// VerificationCode calls f.
func (f Func) VerificationCode(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static always returns the same code.
type Static string

// VerificationCode returns s.
func (s Static) VerificationCode(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(s)), nil
}

// Reader reads one line from an io.Reader, writing a prompt first.
//
// A single background goroutine owns the underlying reader, so calls may
// be repeated after a cancellation. A line typed after a call was
// cancelled is returned by the next call.
type Reader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string

	start   sync.Once
	lines   chan string
	readErr error
}

// NewReader creates a line provider. out may be nil.
func NewReader(in io.Reader, out io.Writer) *Reader {
	if out == nil {
		out = io.Discard
	}
	return &Reader{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: "验证码: ",
		lines:  make(chan string),
	}
}

// readLines feeds trimmed lines to r.lines until the input fails, then
// records the error and closes the channel.
func (r *Reader) readLines() {
	defer close(r.lines)
	for {
		line, err := r.in.ReadString('\n')
		if line != "" || err == nil {
			r.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			r.readErr = err
			return
		}
	}
}

// VerificationCode prints the prompt and returns the next trimmed line.
func (r *Reader) VerificationCode(ctx context.Context) (string, error) {
	if _, err := fmt.Fprint(r.out, r.prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	r.start.Do(func() { go r.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			return "", fmt.Errorf("failed to read code: %w", r.readErr)
		}
		return line, nil
	}
}
