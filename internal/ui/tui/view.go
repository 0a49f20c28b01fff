package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/modsetup/internal/engine"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)

	b.WriteString(contentStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.Snapshot.Image != "" {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("image:"), dimStyle.Render(m.Snapshot.Image))
	}

	if len(m.Diagnostics) > 0 {
		renderDiagnostics(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	s := m.Snapshot
	title := m.Title
	if title == "" {
		title = "modsetup"
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case s.Completed:
		status += readyStyle.Render(checkMark + " Setup complete")
	case s.Busy:
		activity := "working"
		if s.Action != "" {
			activity = fmt.Sprintf("%s (%d/%d)", s.Action, s.ActionIndex+1, s.ActionCount)
		}
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(activity)
	default:
		status += dimStyle.Render(fmt.Sprintf("Step %d of %d", s.Index+1, s.Total))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m.Snapshot)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderDiagnostics(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Diagnostics"))
	b.WriteString("\n")

	for _, ev := range m.Diagnostics {
		icon := warnMark
		style := warningStyle.Render
		if ev.Failure() {
			icon = crossMark
			style = failedStyle.Render
		}

		subject := ev.Action
		if ev.Path != "" {
			subject = strings.TrimSpace(subject + " " + ev.Path)
		}
		msg := ev.Message
		if ev.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, ev.Err)
		}
		fmt.Fprintf(b, "    %s %s %s\n", style(icon), subject, dimStyle.Render(msg))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	var parts []string
	for _, kb := range m.keys.bindings() {
		if !visible(m.Snapshot.Controls, kb.intent) {
			continue
		}
		help := kb.binding.Help()
		label := keyStyle.Render(help.Key) + " " + help.Desc
		if !m.Snapshot.Controls.Enabled(kb.intent) {
			label = dimStyle.Render(help.Key + " " + help.Desc)
		}
		parts = append(parts, label)
	}
	quit := m.keys.Quit.Help()
	parts = append(parts, dimStyle.Render(quit.Key+" "+quit.Desc))

	elapsed := dimStyle.Render("elapsed: " + formatDuration(time.Since(m.StartTime)))
	b.WriteString(footerStyle.Render("  " + strings.Join(parts, "  ")))
	b.WriteString("  " + elapsed + "\n")
}

// visible reports whether an intent belongs to the layout of the step:
// branch steps show yes/no, the others a single confirmation. Skip is
// shown only when it can be used.
func visible(c engine.Controls, i engine.Intent) bool {
	switch i {
	case engine.IntentConfirm:
		return !c.Branch
	case engine.IntentChooseYes, engine.IntentChooseNo:
		return c.Branch
	case engine.IntentSkip:
		return c.Skip
	default:
		return false
	}
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(s engine.Snapshot) float64 {
	if s.Completed || s.Total == 0 {
		return 1.0
	}
	progress := float64(s.Index) / float64(s.Total)
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
