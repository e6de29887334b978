// Package linear prints run progress as plain, chronological lines suitable
// for terminals and CI logs alike.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/portable/internal/core/ports"
	"go.trai.ch/portable/internal/ui/output"
	"go.trai.ch/portable/internal/ui/style"
)

// boxBorder frames section titles with asterisks.
var boxBorder = lipgloss.Border{
	Top:         "*",
	Bottom:      "*",
	Left:        "*",
	Right:       "*",
	TopLeft:     "*",
	TopRight:    "*",
	BottomLeft:  "*",
	BottomRight: "*",
}

// Reporter implements ports.Reporter.
type Reporter struct {
	w      io.Writer
	output *termenv.Output
	box    lipgloss.Style

	mu sync.Mutex
}

var _ ports.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter writing to w. A nil w writes to os.Stdout.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}

	profile := output.ColorProfileANSI()
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(profile)

	return &Reporter{
		w:      w,
		output: output.NewWithProfile(w, func() termenv.Profile { return profile }),
		box: renderer.NewStyle().
			Border(boxBorder).
			BorderForeground(style.Accent).
			Padding(0, 1),
	}
}

// Section prints title inside an asterisk box.
func (r *Reporter) Section(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.w, r.box.Render(title))
}

// Success prints msg behind a check mark.
func (r *Reporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	check := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.w, "%s %s\n", check, msg)
}

// Command echoes argv the way a shell trace does.
func (r *Reporter) Command(argv []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := style.Prompt + " " + strings.Join(argv, " ")
	_, _ = fmt.Fprintln(r.w, r.output.String(line).Faint().String())
}
