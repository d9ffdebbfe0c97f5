package lang

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Console is the I/O surface of the print, println and readline builtins.
type Console interface {
	io.Writer

	// ReadLine writes prompt, then reads one line of input without its line
	// terminator. It returns io.EOF only when no input remains at all.
	ReadLine(prompt string) (string, error)
}

// NewConsole returns a Console reading lines from r and writing to w.
func NewConsole(r io.Reader, w io.Writer) *StreamConsole {
	return &StreamConsole{r: bufio.NewReader(r), w: w}
}

// StreamConsole is a [Console] over a reader and a writer.
type StreamConsole struct {
	r *bufio.Reader
	w io.Writer
}

func (c *StreamConsole) Write(p []byte) (int, error) { return c.w.Write(p) }

// ReadLine implements [Console].
func (c *StreamConsole) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(c.w, prompt); err != nil {
			return "", err
		}
	}

	line, err := c.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}
