// Package card renders a country projection for people: a bordered terminal
// card and a .docx export.
package card

import (
	"fmt"
	"strings"

	"countrycard/internal/country"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
}

var DefaultTheme = Theme{
	Primary: lipgloss.Color("#667eea"),
	Accent:  lipgloss.Color("#764ba2"),
	Muted:   lipgloss.Color("#6b7280"),
	Error:   lipgloss.Color("#dc2626"),
	Warning: lipgloss.Color("#d97706"),
}

type Styles struct {
	Card    lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Link    lipgloss.Style
	Recent  lipgloss.Style
	Tag     lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),
		Value: lipgloss.NewStyle(),
		Link: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Underline(true),
		Recent: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Tag: lipgloss.NewStyle().
			Foreground(theme.Accent),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),
	}
}

// Renderer draws cards. Width 0 leaves lines unwrapped.
type Renderer struct {
	Styles Styles
	Width  int
}

func NewRenderer(width int) *Renderer {
	return &Renderer{Styles: NewStyles(DefaultTheme), Width: width}
}

// Render draws p as a bordered card: title, flag link, the info grid and
// the map link.
func (r *Renderer) Render(p country.Projection) string {
	s := r.Styles

	labelWidth := 0
	fields := p.Fields()
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > labelWidth {
			labelWidth = w
		}
	}

	rows := make([]string, 0, len(fields))
	for _, f := range fields {
		label := s.Label.Width(labelWidth + 2).Render(f.Label)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, s.Value.Render(f.Value)))
	}

	mapLine := "Map: not available"
	if p.MapURL != country.NoMapURL {
		mapLine = "📍 View on Google Maps: " + s.Link.Render(p.MapURL)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(p.CommonName),
		s.Recent.Render(p.FlagAlt+": ")+s.Link.Render(p.FlagURL),
		"",
		strings.Join(rows, "\n"),
		"",
		mapLine,
	)

	card := s.Card
	if r.Width > 0 {
		card = card.Width(r.Width)
	}
	return card.Render(body)
}

// RenderRecent draws the recent searches bar; empty when there are none.
func (r *Renderer) RenderRecent(names []string) string {
	if len(names) == 0 {
		return ""
	}
	tags := make([]string, 0, len(names))
	for i, n := range names {
		tags = append(tags, r.Styles.Tag.Render(fmt.Sprintf("[%d] 🕐 %s", i+1, n)))
	}
	return r.Styles.Recent.Render("Recent:") + " " + strings.Join(tags, "  ")
}

func (r *Renderer) RenderError(msg string) string {
	return r.Styles.Error.Render("❌ " + msg)
}

func (r *Renderer) RenderWarning(msg string) string {
	return r.Styles.Warning.Render("⚠️ " + msg)
}
