package toast

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var styles = map[Severity]struct {
	icon  string
	style lipgloss.Style
}{
	SeveritySuccess: {"✔", lipgloss.NewStyle().Foreground(lipgloss.Color("42"))},
	SeverityError:   {"✖", lipgloss.NewStyle().Foreground(lipgloss.Color("196"))},
	SeverityWarning: {"⚠", lipgloss.NewStyle().Foreground(lipgloss.Color("214"))},
	SeverityInfo:    {"ℹ", lipgloss.NewStyle().Foreground(lipgloss.Color("39"))},
}

// Terminal prints each toast on its own line when it is added. Removal is a
// no-op, printed lines stay.
type Terminal struct {
	out  io.Writer
	lock sync.Mutex
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Add(toast Toast) {
	t.lock.Lock()
	defer t.lock.Unlock()

	s := styles[toast.Severity]
	fmt.Fprintln(t.out, s.style.Render(s.icon+" "+toast.Message)) //nolint:errcheck
}

func (t *Terminal) Remove(Toast) {}
