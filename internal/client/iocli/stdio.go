package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio is IO over the process standard streams.
type Stdio struct {
	in  *bufio.Reader
	out io.Writer
	tty bool
}

// NewStdio создает IO поверх os.Stdin и os.Stdout
func NewStdio() IO {
	return &Stdio{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		tty: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) IsTerminal() bool {
	return s.tty
}

// ReadInput печатает приглашение и читает строку без завершающих пробелов.
// Последняя строка без перевода строки возвращается вместе с io.EOF.
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
