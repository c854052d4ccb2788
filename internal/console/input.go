package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one line of user input after showing prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Input splits user lines into whitespace-separated tokens, so "3 dots.cpp"
// typed on one line answers both the menu and the file prompt.
type Input struct {
	src     LineReader
	pending []string
}

// NewInput wraps a line source.
func NewInput(src LineReader) *Input {
	return &Input{src: src}
}

// Token returns the next token, reading new lines (and showing prompt) only
// when none are buffered. Blank lines are skipped.
func (in *Input) Token(prompt string) (string, error) {
	for len(in.pending) == 0 {
		line, err := in.src.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		in.pending = strings.Fields(line)
	}
	tok := in.pending[0]
	in.pending = in.pending[1:]
	return tok, nil
}

// Line returns the rest of the buffered line if any, otherwise the next
// non-blank line, trimmed.
func (in *Input) Line(prompt string) (string, error) {
	if len(in.pending) > 0 {
		line := strings.Join(in.pending, " ")
		in.pending = nil
		return line, nil
	}
	for {
		line, err := in.src.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
}

// BufferedLines reads lines from any reader, writing prompts to out.
type BufferedLines struct {
	r   *bufio.Reader
	out io.Writer
}

// NewBufferedLines is the line source for pipes, files and tests.
func NewBufferedLines(r io.Reader, out io.Writer) *BufferedLines {
	return &BufferedLines{r: bufio.NewReader(r), out: out}
}

func (b *BufferedLines) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)
	line, err := b.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadlineLines is the interactive line source with editing and history.
type ReadlineLines struct {
	rl *readline.Instance
}

// NewReadlineLines opens a terminal line editor. historyFile may be empty.
func NewReadlineLines(historyFile string) (*ReadlineLines, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("open line editor: %w", err)
	}
	return &ReadlineLines{rl: rl}, nil
}

// ReadLine maps Ctrl-C to io.EOF so an interrupt ends the console cleanly.
func (r *ReadlineLines) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func (r *ReadlineLines) Close() error { return r.rl.Close() }
