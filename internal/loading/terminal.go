package loading

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	messageStyle    = lipgloss.NewStyle().Bold(true)
	subMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Terminal draws a spinner on interactive terminals and prints one line per
// message change everywhere else.
type Terminal struct {
	out     io.Writer
	animate bool
	spinner spinner.Spinner

	lock       sync.Mutex
	message    string
	subMessage string
	stop       chan struct{}
	done       chan struct{}
}

func NewTerminal(out io.Writer) *Terminal {
	animate := false
	if f, ok := out.(*os.File); ok {
		animate = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Terminal{out: out, animate: animate, spinner: spinner.MiniDot}
}

func (t *Terminal) line(frame string) string {
	line := messageStyle.Render(t.message)
	if frame != "" {
		line = spinnerStyle.Render(frame) + " " + line
	}
	if t.subMessage != "" {
		line += " " + subMessageStyle.Render(t.subMessage)
	}
	return line
}

func (t *Terminal) Show(message, subMessage string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.message = message
	t.subMessage = subMessage

	if !t.animate {
		fmt.Fprintln(t.out, t.line("…")) //nolint:errcheck
		return
	}

	if t.stop == nil {
		t.stop = make(chan struct{})
		t.done = make(chan struct{})
		go t.run(t.stop, t.done)
	}
}

func (t *Terminal) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.spinner.FPS)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		t.lock.Lock()
		fmt.Fprint(t.out, "\r\x1b[K"+t.line(t.spinner.Frames[frame%len(t.spinner.Frames)])) //nolint:errcheck
		t.lock.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (t *Terminal) Hide() {
	t.lock.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.lock.Unlock()

	if stop == nil {
		return
	}

	close(stop)
	<-done
	fmt.Fprint(t.out, "\r\x1b[K") //nolint:errcheck
}
