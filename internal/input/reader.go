// Package input supplies the shell's line-read collaborator: a buffered
// reader with clearable history and a no-echo password prompt.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Reader reads lines from an input stream, tracking history for non-blank
// lines. It satisfies the shell's LineReader contract.
type Reader struct {
	raw       io.Reader
	in        *bufio.Reader
	out       io.Writer
	history   *History
	sensitive map[string]bool
}

// NewReader creates a reader over in, writing prompts to out.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return NewReaderWithHistory(in, out, NewHistory(0))
}

// NewReaderWithHistory creates a reader with a caller-supplied history.
func NewReaderWithHistory(in io.Reader, out io.Writer, history *History) *Reader {
	if history == nil {
		history = NewHistory(0)
	}
	return &Reader{
		raw:       in,
		in:        bufio.NewReader(in),
		out:       out,
		history:   history,
		sensitive: make(map[string]bool),
	}
}

// MarkSensitive excludes lines starting with any of the given command
// names from history, so secrets passed inline (a login password) are
// never retained.
func (r *Reader) MarkSensitive(names ...string) {
	for _, name := range names {
		r.sensitive[strings.ToLower(name)] = true
	}
}

// ReadLine prints the prompt and blocks until a full line is available.
// Line endings are stripped; non-blank lines are recorded in history.
// Returns io.EOF when the input stream ends.
func (r *Reader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}

	line, err := r.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			// Final line without a trailing newline.
			return r.record(line), nil
		}
		return "", err
	}
	return r.record(line), nil
}

// record trims the line ending and stores non-blank, non-sensitive lines
// in history.
func (r *Reader) record(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) != "" && !r.isSensitive(line) {
		r.history.Add(line)
	}
	return line
}

func (r *Reader) isSensitive(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return r.sensitive[strings.ToLower(fields[0])]
}

// ReadPassword prints the prompt and reads a line with terminal echo
// disabled. Non-terminal input (pipes, tests) falls back to a plain read
// without recording history.
func (r *Reader) ReadPassword(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}

	if f, ok := r.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := r.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ClearHistory discards all tracked history. The shell calls this on every
// context transition.
func (r *Reader) ClearHistory() {
	r.history.Clear()
}

// History returns the reader's history.
func (r *Reader) History() *History {
	return r.history
}
