package helpers

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/doeshing/sllm/internal/domain"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ColorEnabled resolves a color mode against the writer and NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}
