// Package output renders command output in terminal, markdown, or
// JSON form. Auto mode picks styled text on a TTY and markdown when
// piped, so lesson transcripts stay readable in scripts and CI logs.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Renderer writes formatted output to an out/err writer pair.
type Renderer struct {
	out  io.Writer
	errW io.Writer
	mode Mode
}

// NewRenderer creates a renderer with the given mode.
func NewRenderer(out, errW io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errW: errW, mode: mode}
}

// Out returns the underlying output writer.
func (r *Renderer) Out() io.Writer { return r.out }

// EffectiveMode resolves auto mode: text on a terminal, markdown
// otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// Header prints a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		_, _ = fmt.Fprintf(r.out, "\n%s %s\n\n", strings.Repeat("#", level), text)
	default:
		_, _ = fmt.Fprintf(r.out, "\n%s\n", headerStyle.Render(text))
	}
}

// Println writes a plain line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Success prints a success line.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.out, successStyle.Render(msg))
		return
	}
	_, _ = fmt.Fprintln(r.out, msg)
}

// Error prints an error line to the error writer.
func (r *Renderer) Error(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errW, errorStyle.Render(msg))
		return
	}
	_, _ = fmt.Fprintln(r.errW, msg)
}

// Warning prints a warning line.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.out, warningStyle.Render(msg))
		return
	}
	_, _ = fmt.Fprintln(r.out, msg)
}
