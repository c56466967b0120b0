package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter wraps an input scanner and output writer for interactive prompts.
// Inject a custom reader/writer for tests.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a Prompter using stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterFromReader(os.Stdin, os.Stdout)
}

// NewPrompterFromReader creates a Prompter with custom reader/writer.
func NewPrompterFromReader(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

// Float prompts until a number is entered. Empty input selects defaultVal.
func (p *Prompter) Float(prompt string, defaultVal float64) (float64, error) {
	for {
		input, err := p.read(prompt, strconv.FormatFloat(defaultVal, 'g', -1, 64))
		if err != nil {
			return 0, err
		}
		if input == "" {
			return defaultVal, nil
		}
		v, err := strconv.ParseFloat(input, 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  %q is not a number, try again\n", input)
	}
}

// Int prompts until an integer is entered. Empty input selects defaultVal.
func (p *Prompter) Int(prompt string, defaultVal int) (int, error) {
	for {
		input, err := p.read(prompt, strconv.Itoa(defaultVal))
		if err != nil {
			return 0, err
		}
		if input == "" {
			return defaultVal, nil
		}
		v, err := strconv.Atoi(input)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  %q is not an integer, try again\n", input)
	}
}

func (p *Prompter) read(prompt, defaultVal string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}
