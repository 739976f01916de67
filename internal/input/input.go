// Package input provides line readers for interactive analysis sessions,
// either directly from a generic stream or through a readline-backed prompt.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader produces one sentence of input at a time. Close must be called
// before disposal to tear down any underlying resources.
type LineReader interface {
	// ReadLine returns the next non-blank line of input with surrounding
	// whitespace trimmed. At end of input it returns io.EOF.
	ReadLine() (string, error)

	Close() error
}

// DirectReader reads lines from any generic input stream directly. It does
// not sanitize control or escape sequences; use InteractiveReader when
// connected to a TTY.
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader creates a DirectReader on the provided stream.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// Close is here so DirectReader implements LineReader; it currently has no
// resources to release.
func (dr *DirectReader) Close() error {
	return nil
}

// ReadLine reads the next line, skipping blank ones. At end of input the
// returned string is empty and the error is io.EOF.
func (dr *DirectReader) ReadLine() (string, error) {
	for {
		line, err := dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}

		if err == io.EOF {
			return "", io.EOF
		}
	}
}

// InteractiveReader reads lines from stdin through a Go implementation of the
// GNU Readline library, keeping the input clear of typing and editing escape
// sequences and enabling history.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader creates an InteractiveReader and initializes readline.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl}, nil
}

// Close tears down readline resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line from the prompt, skipping blank ones. An
// interrupt on an empty line and end of input both return io.EOF.
func (ir *InteractiveReader) ReadLine() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return "", io.EOF
			}
			continue
		} else if err == io.EOF {
			return "", io.EOF
		} else if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}
