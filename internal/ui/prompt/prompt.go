package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/modsetup/internal/engine"
)

// choiceQuit is the select value that ends the run.
const choiceQuit = "quit"

var (
	stepStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	contentStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Engine is the part of the engine the prompter drives.
type Engine interface {
	Run(ctx context.Context) error
	Send(i engine.Intent)
	Snapshot() engine.Snapshot
	OnUpdate(fn func(engine.Snapshot))
}

// Asker asks the user to pick one of options and returns the chosen value.
type Asker func(ctx context.Context, title, description string, options []huh.Option[string]) (string, error)

// Prompter runs an engine behind a sequence of select forms.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
	ask        Asker
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithInput sets where answers are read from.
func WithInput(r io.Reader) Option {
	return func(p *Prompter) {
		p.in = r
	}
}

// WithOutput sets where steps and forms are written.
func WithOutput(w io.Writer) Option {
	return func(p *Prompter) {
		p.out = w
	}
}

// WithAccessible switches huh to its accessible mode, which reads plain
// lines instead of driving the terminal.
func WithAccessible(accessible bool) Option {
	return func(p *Prompter) {
		p.accessible = accessible
	}
}

// WithAsker replaces the huh form. Used in tests.
func WithAsker(a Asker) Option {
	return func(p *Prompter) {
		p.ask = a
	}
}

// New creates a Prompter reading stdin and writing stdout.
func New(opts ...Option) *Prompter {
	p := &Prompter{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ask == nil {
		p.ask = p.huhAsker
	}
	return p
}

// Run drives eng until it stops. The user quitting returns
// context.Canceled.
func (p *Prompter) Run(ctx context.Context, eng Engine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notify := make(chan struct{}, 1)
	eng.OnUpdate(func(engine.Snapshot) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- eng.Run(ctx)
	}()

	var asked uint64
	var busyShown uint64
	for {
		snap := eng.Snapshot()

		switch {
		case snap.Version == 0, snap.Completed:
		case snap.Busy:
			if busyShown != snap.Version && snap.Action != "" {
				busyShown = snap.Version
				fmt.Fprintf(p.out, "  %s (%d/%d)\n", noticeStyle.Render(snap.Action), snap.ActionIndex+1, snap.ActionCount)
			}
		case snap.Version != asked:
			asked = snap.Version
			intent, quit, err := p.askStep(ctx, snap)
			if err != nil || quit {
				cancel()
				<-errCh
				if err != nil {
					return err
				}
				return context.Canceled
			}
			eng.Send(intent)
		}

		select {
		case err := <-errCh:
			if err == nil {
				fmt.Fprintln(p.out, doneStyle.Render("Setup complete."))
			}
			return err
		case <-notify:
		}
	}
}

func (p *Prompter) askStep(ctx context.Context, snap engine.Snapshot) (engine.Intent, bool, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, stepStyle.Render(fmt.Sprintf("Step %d of %d", snap.Index+1, snap.Total)))
	if text := strings.TrimSpace(snap.Text); text != "" {
		fmt.Fprintln(p.out, contentStyle.Render(text))
	}
	if snap.Image != "" {
		fmt.Fprintf(p.out, "  (image: %s)\n", snap.Image)
	}

	title := "Continue?"
	if snap.Controls.Branch {
		title = "Your answer"
	}
	choice, err := p.ask(ctx, title, "", optionsFor(snap.Controls))
	if err != nil {
		return 0, false, fmt.Errorf("prompt for step %d: %w", snap.Index, err)
	}
	if choice == choiceQuit {
		return 0, true, nil
	}

	intent, ok := parseChoice(choice)
	if !ok {
		return 0, false, fmt.Errorf("prompt for step %d: unexpected choice %q", snap.Index, choice)
	}
	return intent, false, nil
}

// optionsFor lists the enabled controls followed by quit.
func optionsFor(c engine.Controls) []huh.Option[string] {
	var opts []huh.Option[string]
	if c.Confirm {
		opts = append(opts, huh.NewOption("Continue", engine.IntentConfirm.String()))
	}
	if c.Yes {
		opts = append(opts, huh.NewOption("Yes", engine.IntentChooseYes.String()))
	}
	if c.No {
		opts = append(opts, huh.NewOption("No", engine.IntentChooseNo.String()))
	}
	if c.Skip {
		opts = append(opts, huh.NewOption("Skip", engine.IntentSkip.String()))
	}
	return append(opts, huh.NewOption("Quit", choiceQuit))
}

func parseChoice(choice string) (engine.Intent, bool) {
	for _, i := range []engine.Intent{engine.IntentConfirm, engine.IntentSkip, engine.IntentChooseYes, engine.IntentChooseNo} {
		if i.String() == choice {
			return i, true
		}
	}
	return 0, false
}

func (p *Prompter) huhAsker(ctx context.Context, title, description string, options []huh.Option[string]) (string, error) {
	var choice string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(description).
				Options(options...).
				Value(&choice),
		),
	).
		WithAccessible(p.accessible).
		WithInput(p.in).
		WithOutput(p.out).
		RunWithContext(ctx)

	if errors.Is(err, huh.ErrUserAborted) {
		return choiceQuit, nil
	}
	return choice, err
}
