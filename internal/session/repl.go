package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Boundary is printed before and after every reply.
const Boundary = "____________________________________________________________"

const logo = ` ____        _
|  _ \ _   _| | _____
| | | | | | | |/ / _ \
| |_| | |_| |   <  __/
|____/ \__,_|_|\_\___|`

// Greeting returns the banner lines printed when a conversation starts.
func Greeting() []string {
	out := []string{"Hello from"}
	out = append(out, strings.Split(logo, "\n")...)
	return append(out, "What can I do for you?")
}

// MaxLineLength is the longest input line Run accepts, in bytes. Longer
// lines are answered with ErrLineTooLong and skipped.
const MaxLineLength = 1 << 20

// ErrLineTooLong reports an input line over MaxLineLength.
var ErrLineTooLong = fmt.Errorf("Input line is too long (limit %d bytes)", MaxLineLength)

type input struct {
	line    string
	tooLong bool
	err     error
}

// Run reads commands from r one line at a time and writes framed replies
// to w. It returns after bye, at end of input, or when ctx is done. Errors
// from commands are printed and never end the loop. Pending changes are
// saved on every return except bye, which saves on its own.
func (s *Session) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	if s.banner {
		if err := s.writeFrame(w, Greeting()); err != nil {
			return s.finish(err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(r, done)

	for {
		if err := ctx.Err(); err != nil {
			return s.finish(err)
		}

		var in input
		var ok bool
		select {
		case <-ctx.Done():
			return s.finish(ctx.Err())
		case in, ok = <-lines:
		}
		if err := ctx.Err(); err != nil {
			return s.finish(err)
		}
		if !ok || errors.Is(in.err, io.EOF) {
			return s.finish(nil)
		}
		if in.err != nil {
			return s.finish(fmt.Errorf("reading input: %w", in.err))
		}

		if in.tooLong {
			s.log.Warn("skipped long input line", "limit", MaxLineLength)
			if err := s.writeFrame(w, []string{ErrLineTooLong.Error()}); err != nil {
				return s.finish(err)
			}
			continue
		}
		if strings.TrimSpace(in.line) == "" {
			continue
		}

		reply, err := s.Handle(in.line)
		out := reply.Lines
		if err != nil {
			out = []string{err.Error()}
		}
		if err := s.writeFrame(w, out); err != nil {
			return s.finish(err)
		}
		if reply.Exit {
			return nil
		}
	}
}

// finish saves pending changes and returns err joined with any save error.
func (s *Session) finish(err error) error {
	return errors.Join(err, s.Flush())
}

// readLines feeds lines from r until a read error or until done is closed.
// A read blocked in r outlives Run until r returns.
func readLines(r io.Reader, done <-chan struct{}) <-chan input {
	lines := make(chan input)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, tooLong, err := readLine(br, MaxLineLength)
			select {
			case lines <- input{line: line, tooLong: tooLong, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// readLine reads one line without its line ending. A line longer than limit
// is consumed and reported as tooLong. A final line without a newline is
// returned before io.EOF.
func readLine(br *bufio.Reader, limit int) (line string, tooLong bool, err error) {
	var buf []byte
	n := 0
	for {
		chunk, rerr := br.ReadSlice('\n')
		n += len(chunk)
		if !tooLong {
			if n > limit+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		if rerr != nil && n == 0 {
			return "", false, rerr
		}
		break
	}
	if tooLong {
		return "", true, nil
	}
	line = strings.TrimSuffix(string(buf), "\n")
	line = strings.TrimSuffix(line, "\r")
	if len(line) > limit {
		return "", true, nil
	}
	return line, false, nil
}

// Frame renders lines between two boundaries, each indented.
func Frame(lines []string, indent int) string {
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	b.WriteString(pad + Boundary + "\n")
	for _, l := range lines {
		b.WriteString(pad + l + "\n")
	}
	b.WriteString(pad + Boundary + "\n")
	return b.String()
}

func (s *Session) writeFrame(w io.Writer, lines []string) error {
	if _, err := io.WriteString(w, Frame(lines, s.indent)); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}
