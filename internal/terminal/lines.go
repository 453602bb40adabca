package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type lineResult struct {
	line string
	err  error
}

// LineReader reads input one line at a time, on demand. Input is only
// consumed while a ReadLine call is waiting, so the terminal can be handed
// to a password prompt between calls.
type LineReader struct {
	requests  chan struct{}
	responses chan lineResult
	pending   bool
}

func NewLineReader(in io.Reader) *LineReader {
	l := &LineReader{
		requests:  make(chan struct{}),
		responses: make(chan lineResult, 1),
	}
	go l.serve(bufio.NewReader(in))
	return l
}

func (l *LineReader) serve(r *bufio.Reader) {
	for range l.requests {
		line, err := r.ReadString('\n')
		if err != nil && line != "" {
			// Hand out the final unterminated line, report EOF on the next call.
			err = nil
		}
		l.responses <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

// ReadLine returns the next line without its terminator. A cancelled wait
// keeps its request outstanding; the next call picks up that line.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	if !l.pending {
		select {
		case l.requests <- struct{}{}:
			l.pending = true
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	select {
	case res := <-l.responses:
		l.pending = false
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
