package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	gansi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// defaultContentWidth is used until the first window size is known.
const defaultContentWidth = 76

// markdownRenderer renders step text for the content viewport. The glamour
// renderer is rebuilt only when the width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{}
}

// Render returns text rendered as markdown and wrapped to width. The raw
// text is returned if glamour fails.
func (r *markdownRenderer) Render(text string, width int) string {
	if width <= 0 {
		width = defaultContentWidth
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		r.renderer = tr
		r.width = width
	}

	out, err := r.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// markdownStyle is the dark glamour style with the heading markers
// removed; headings are told apart by color.
func markdownStyle() gansi.StyleConfig {
	s := styles.DarkStyleConfig
	s.H2.Prefix = ""
	s.H3.Prefix = ""
	s.H4.Prefix = ""
	s.H5.Prefix = ""
	s.H6.Prefix = ""
	return s
}
