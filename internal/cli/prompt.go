// Package cli collects the interactive answers the launch program needs.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

// ErrNoInput is returned when the input ends before a valid answer is given.
var ErrNoInput = errors.New("input closed before a value was entered")

// Prompt texts.
const (
	PromptDirectory = "Enter the path to the files:"
	PromptSender    = "Enter the sender email address:"
	PromptPassword  = "Enter the password:"
	PromptReceiver  = "Enter the receiver email address:"
)

// Answers are the values entered by the user for one run.
type Answers struct {
	Directory string `validate:"required,dir"`
	Sender    string `validate:"required,email"`
	Password  string `validate:"required"`
	Receiver  string `validate:"required,email"`
}

// Prompter asks questions on out and reads the answers from in, one per line.
// Each question is repeated until the answer passes its validation rule.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	validate *validator.Validate

	// readSecret reads a line without echo; nil when in is not a terminal.
	readSecret func() (string, error)
}

// NewPrompter creates a Prompter. When in is a terminal, passwords are read
// without echoing them.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		validate: validator.New(),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(b), err
		}
	}
	return p
}

// Collect asks for the directory, the sender address, the password and the
// receiver address, in that order.
func (p *Prompter) Collect() (Answers, error) {
	var a Answers
	var err error
	if a.Directory, err = p.Ask(PromptDirectory, "required,dir"); err != nil {
		return Answers{}, err
	}
	if a.Sender, err = p.Ask(PromptSender, "required,email"); err != nil {
		return Answers{}, err
	}
	if a.Password, err = p.AskSecret(PromptPassword); err != nil {
		return Answers{}, err
	}
	if a.Receiver, err = p.Ask(PromptReceiver, "required,email"); err != nil {
		return Answers{}, err
	}
	return a, p.validate.Struct(a)
}

// Ask prints question and returns the first trimmed answer that satisfies
// the validator rule.
func (p *Prompter) Ask(question, rule string) (string, error) {
	for {
		fmt.Fprintln(p.out, question)
		value, err := p.readLine()
		if err != nil {
			return "", err
		}
		if err := p.validate.Var(value, rule); err != nil {
			fmt.Fprintln(p.out, describe(err))
			continue
		}
		return value, nil
	}
}

// AskSecret is Ask for a value that must not be echoed. Only emptiness is
// checked; surrounding spaces are kept.
func (p *Prompter) AskSecret(question string) (string, error) {
	for {
		fmt.Fprintln(p.out, question)
		var value string
		var err error
		if p.readSecret != nil {
			value, err = p.readSecret()
		} else {
			value, err = p.readRaw()
		}
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.readRaw()
	return strings.TrimSpace(line), err
}

func (p *Prompter) readRaw() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch verrs[0].Tag() {
	case "required":
		return "A value is required."
	case "dir":
		return "The path is not an existing directory."
	case "email":
		return "The value is not a valid email address."
	default:
		return fmt.Sprintf("The value failed the %q rule.", verrs[0].Tag())
	}
}
