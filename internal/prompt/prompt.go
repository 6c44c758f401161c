// Package prompt is the terminal front end of the question phase. It asks
// each question on a writer and reads the reply from a reader, using
// numbered menus for list questions.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/webext-kit/webext/internal/questions"
)

// Terminal implements questions.Asker over line-oriented I/O.
type Terminal struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewTerminal returns a Terminal reading replies from r and writing
// prompts to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(r), w: w}
}

// Ask prints q and returns the raw reply. The reply is not validated here;
// the question layer does that.
func (t *Terminal) Ask(ctx context.Context, q questions.Spec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	label := q.Message
	if label == "" {
		label = q.Key
	}

	switch q.Kind {
	case questions.KindList:
		return t.selectFromList(label, q)
	case questions.KindConfirm:
		hint := "(y/N)"
		if q.Default != nil && strings.EqualFold(*q.Default, "true") {
			hint = "(Y/n)"
		}
		fmt.Fprintf(t.w, "? %s %s ", label, hint)
	default:
		if q.Default != nil && *q.Default != "" {
			fmt.Fprintf(t.w, "? %s (%s) ", label, *q.Default)
		} else {
			fmt.Fprintf(t.w, "? %s ", label)
		}
	}
	return t.readLine()
}

// selectFromList presents a numbered list and returns the typed reply,
// which may be a number, a value or a short label.
func (t *Terminal) selectFromList(label string, q questions.Spec) (string, error) {
	fmt.Fprintf(t.w, "? %s\n", label)
	for i, c := range q.Choices {
		name := c.Name
		if name == "" {
			name = c.Value
		}
		fmt.Fprintf(t.w, "  %d) %s\n", i+1, name)
	}
	fmt.Fprintf(t.w, "Enter number [1-%d]: ", len(q.Choices))

	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", nil
	}
	if c, ok := choiceFor(q.Choices, line); ok && c.Short != "" {
		fmt.Fprintf(t.w, "  → %s\n", c.Short)
	}
	return line, nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func choiceFor(choices []questions.Choice, reply string) (questions.Choice, bool) {
	if n, err := strconv.Atoi(reply); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	for _, c := range choices {
		if c.Value == reply {
			return c, true
		}
	}
	return questions.Choice{}, false
}
