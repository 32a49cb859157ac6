package helpers

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// Printer writes command output, styling warnings and errors and
// highlighting code replies when color is on.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Color bool

	warnStyle  lipgloss.Style
	errorStyle lipgloss.Style
	noteStyle  lipgloss.Style
}

// NewPrinter builds a printer for the given streams.
func NewPrinter(out, errOut io.Writer, color bool) *Printer {
	return &Printer{
		Out:        out,
		Err:        errOut,
		Color:      color,
		warnStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		errorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		noteStyle:  lipgloss.NewStyle().Faint(true),
	}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}

// Println writes a plain line to Out.
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.Out, a...)
}

// Printf writes formatted text to Out.
func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.Out, format, a...)
}

// Warning prints "WARNING: msg" to Out.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.Out, p.style(p.warnStyle, "WARNING: "+msg))
}

// Error prints "ERROR: msg" to Err.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Err, p.style(p.errorStyle, "ERROR: "+msg))
}

// Note prints a dimmed hint line to Err.
func (p *Printer) Note(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(p.Err, p.style(p.noteStyle, msg))
}

// Reply prints a model response after a blank line. Replies requested as
// code in lang are syntax highlighted when color is on.
func (p *Printer) Reply(text, lang string) {
	fmt.Fprintln(p.Out)
	if p.Color && lang != "" {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, text, strings.ToLower(lang), highlightFormatter, highlightStyle); err == nil {
			fmt.Fprintln(p.Out, strings.TrimRight(buf.String(), "\n"))
			return
		}
	}
	fmt.Fprintln(p.Out, text)
}
