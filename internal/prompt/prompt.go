// Package prompt asks the user for values on the terminal.
//
// Interactive terminals get a bubbletea text input (with masked echo for
// secrets); pipes and tests fall back to plain line reads.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Question is a single value to ask for.
type Question struct {
	Label   string
	Default string
	Secret  bool
}

// Asker asks questions and returns the answers.
type Asker interface {
	Ask(q Question) (string, error)
}

// New returns an interactive Asker when in is a terminal and a line Asker otherwise.
func New(in io.Reader, out io.Writer) Asker {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &interactiveAsker{in: in, out: out}
	}
	return NewLineAsker(in, out)
}

// LineAsker reads one answer per line.
type LineAsker struct {
	r   *bufio.Reader
	out io.Writer
}

// NewLineAsker creates a LineAsker reading from in and writing prompts to out.
func NewLineAsker(in io.Reader, out io.Writer) *LineAsker {
	return &LineAsker{r: bufio.NewReader(in), out: out}
}

// Ask writes the label and reads a line. An empty line yields the default.
// End of input with no answer returns the default if there is one and
// ErrCancelled otherwise.
func (a *LineAsker) Ask(q Question) (string, error) {
	fmt.Fprint(a.out, label(q))

	line, err := a.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		if errors.Is(err, io.EOF) && q.Default == "" {
			return "", ErrCancelled
		}
		answer = q.Default
	}
	return answer, nil
}

func label(q Question) string {
	if q.Default != "" && !q.Secret {
		return fmt.Sprintf("%s [%s]: ", q.Label, q.Default)
	}
	return q.Label + ": "
}
