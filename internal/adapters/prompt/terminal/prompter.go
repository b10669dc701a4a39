package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"golang.org/x/term"
)

const maxConfirmAttempts = 3

// Prompter asks questions on a terminal. Hidden input puts the terminal in
// raw mode so that Ctrl+C arrives as a key press and skips the question
// instead of killing the process. Without a terminal it reads plain lines,
// which lets secrets be piped in.
//
// A prompt waiting for input returns domain.ErrUserCancelled as soon as its
// context is cancelled.
type Prompter struct {
	in  io.Reader
	out io.Writer

	fd         int
	isTerminal bool
	makeRaw    func(fd int) (*term.State, error)
	restore    func(fd int, state *term.State) error

	mu      sync.Mutex
	reader  *bufio.Reader
	pending chan readResult
}

type readResult struct {
	value string
	err   error
}

var _ ports.Prompter = (*Prompter)(nil)

func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:      in,
		out:     out,
		makeRaw: term.MakeRaw,
		restore: term.Restore,
		reader:  bufio.NewReader(in),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTerminal = true
	}

	return p
}

func (p *Prompter) PromptHidden(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var value string
	var err error
	if p.isTerminal {
		value, err = p.readHiddenFromTerminal(ctx, label)
	} else {
		_, _ = fmt.Fprint(p.out, label)
		value, err = p.await(ctx, p.readLine)
	}
	if err != nil {
		return "", err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.ErrUserCancelled
	}
	return value, nil
}

func (p *Prompter) Confirm(ctx context.Context, label string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; attempt < maxConfirmAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		_, _ = fmt.Fprintf(p.out, "%s %s ", label, hint)
		answer, err := p.await(ctx, p.readLine)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		_, _ = fmt.Fprintln(p.out, "Please answer y or n.")
	}

	return defaultYes, nil
}

// await runs read in the background until it returns or ctx is done. A read
// left behind by a cancelled prompt is collected by the next prompt, so two
// readers never share the input.
func (p *Prompter) await(ctx context.Context, read func() (string, error)) (string, error) {
	if p.pending == nil {
		done := make(chan readResult, 1)
		go func() {
			value, err := read()
			done <- readResult{value: value, err: err}
		}()
		p.pending = done
	}

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", domain.ErrUserCancelled, ctx.Err())
	case res := <-p.pending:
		p.pending = nil
		return res.value, res.err
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", domain.ErrPromptUnavailable
		}
		return "", fmt.Errorf("read answer: %w", err)
	}

	return line, nil
}

func (p *Prompter) readHiddenFromTerminal(ctx context.Context, label string) (string, error) {
	state, err := p.makeRaw(p.fd)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPromptUnavailable, err)
	}
	defer func() { _ = p.restore(p.fd, state) }()

	value, err := p.await(ctx, func() (string, error) {
		screen := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{p.in, p.out}, "")

		// ReadPassword reports Ctrl+C, and Ctrl+D on an empty line, as io.EOF.
		value, err := screen.ReadPassword(label)
		if errors.Is(err, io.EOF) {
			return "", domain.ErrUserCancelled
		}
		if err != nil {
			return "", fmt.Errorf("read hidden input: %w", err)
		}
		return value, nil
	})
	if err != nil {
		// Enter ends the line itself; a cancelled prompt does not.
		_, _ = fmt.Fprint(p.out, "\r\n")
	}
	return value, err
}
