// Package util holds small helpers shared by the CLI and the TUI.
package util

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/muesli/reflow/ansi"
	"golang.org/x/term"
)

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

var stdout io.Writer = os.Stdout

// PrintErasable shows a status line until the returned func is called.
// Nothing is printed when stdout is not a terminal.
func PrintErasable(msg string) (erase func()) {
	if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}

	_, _ = fmt.Fprintf(stdout, "\r%s", msg)
	return func() {
		_, _ = fmt.Fprintf(stdout, "\r%s\r", strings.Repeat(" ", ansi.PrintableRuneWidth(msg)))
	}
}

// Ignore drops the error of f, for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Delete removes a file or a whole directory. A missing path is not an error.
func Delete(path string) error {
	api := filesystem.API()

	stat, err := api.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return api.RemoveAll(path)
	}
	return api.Remove(path)
}
