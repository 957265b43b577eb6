package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// errExit is returned by a prompt when the user asked to leave or stdin closed.
var errExit = errors.New("exit requested")

// lineReader feeds stdin lines to the loop from a goroutine so that a blocked
// read never hides an interrupt.
type lineReader struct {
	lines chan string
	done  chan struct{}
	err   error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-lr.done:
				return
			}
		}
		lr.err = sc.Err()
	}()
	return lr
}

// Close releases the reader goroutine if it is waiting to deliver a line.
func (lr *lineReader) Close() {
	close(lr.done)
}

// read prints prompt and waits for the next line. A closed input yields errExit;
// a cancelled ctx yields ctx.Err().
func (l *Loop) read(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(l.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.input.lines:
		if !ok {
			if l.input.err != nil {
				return "", fmt.Errorf("read input: %w", l.input.err)
			}
			return "", errExit
		}
		return line, nil
	}
}
