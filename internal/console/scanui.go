package console

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muldoon/wledctl/internal/discovery"
)

// scanDoneMsg carries the finished browse back into the model.
type scanDoneMsg struct {
	records []discovery.Record
	err     error
}

// scanTickMsg redraws the progress bar while the browse listens.
type scanTickMsg time.Time

// scanModel animates the timed mDNS browse: a spinner, a progress bar
// filling over the scan window, and an early-stop key. The browse
// itself runs outside the model and reports through scanDoneMsg.
type scanModel struct {
	spinner spinner.Model
	bar     progress.Model
	window  time.Duration
	started time.Time

	// cancel ends the browse early; the partial results still arrive
	// through scanDoneMsg.
	cancel context.CancelFunc

	records []discovery.Record
	err     error
	done    bool
}

func newScanModel(window time.Duration, cancel context.CancelFunc) scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return scanModel{
		spinner: s,
		bar:     bar,
		window:  window,
		started: time.Now(),
		cancel:  cancel,
	}
}

func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, scanTick())
}

func scanTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// Stop listening early; whatever was heard still counts.
			m.cancel()
		}
		return m, nil

	case scanDoneMsg:
		m.records = msg.records
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case scanTickMsg:
		return m, scanTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m scanModel) View() string {
	if m.done {
		return ""
	}

	elapsed := time.Since(m.started)
	pct := min(1.0, elapsed.Seconds()/m.window.Seconds())

	title := fmt.Sprintf("%s Scanning for WLED devices...", m.spinner.View())
	hint := fmt.Sprintf("Elapsed: %ds · press q to stop early", int(elapsed.Seconds()))

	return fmt.Sprintf("\n  %s\n\n  %s\n\n  %s\n",
		title, m.bar.ViewAs(pct), hintStyle.Render(hint))
}

// runScan browses for the given window. On a terminal the wait is
// animated; piped output gets a single status line instead.
func (c *Console) runScan(ctx context.Context, window time.Duration) ([]discovery.Record, error) {
	scanner := *c.scanner
	scanner.Window = window

	if !c.interactive {
		c.printf("Scanning for %s services for %d seconds...\n",
			scanner.Service, int(window.Seconds()))
		return scanner.Scan(ctx)
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newScanModel(window, cancel), tea.WithOutput(c.out))

	go func() {
		records, err := scanner.Scan(scanCtx)
		p.Send(scanDoneMsg{records: records, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(scanModel)
	return m.records, m.err
}
