package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// console is the shell's terminal: one scanner shared by the command loop
// and the prompts commands issue.
type console struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

func (c *console) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}

	return c.scanner.Text(), true
}

func (c *console) err() error {
	return c.scanner.Err()
}

func (c *console) prompt(text string) {
	fmt.Fprint(c.out, text)
}

func (c *console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}

// readPassword asks for a secret, without echo when the input is a
// terminal.
func (c *console) readPassword(label string) (string, error) {
	c.prompt(label + ": ")

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		c.println()
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	line, ok := c.readLine()
	if !ok {
		if err := c.err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return line, nil
}

// Confirm asks a yes/no question; anything but an explicit yes is a no.
func (c *console) Confirm(prompt string) bool {
	c.prompt(prompt + " [y/N]: ")

	line, ok := c.readLine()
	if !ok {
		c.println()
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}

	return false
}
