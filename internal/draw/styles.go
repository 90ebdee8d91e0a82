package draw

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ProfileFor picks a color profile from a TERM value. SSH sessions are not
// a local tty, so the profile cannot be detected from the writer.
func ProfileFor(term string) termenv.Profile {
	t := strings.ToLower(term)
	switch {
	case t == "" || t == "dumb":
		return termenv.Ascii
	case strings.Contains(t, "truecolor"), strings.Contains(t, "24bit"), strings.Contains(t, "direct"):
		return termenv.TrueColor
	case strings.Contains(t, "256"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// NewRenderer creates a lipgloss renderer for w using the profile of term.
func NewRenderer(w io.Writer, term string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ProfileFor(term))
	return r
}

// Styles holds every style the game screen uses.
type Styles struct {
	Title   lipgloss.Style
	Red     lipgloss.Style // Doll watching
	Green   lipgloss.Style // Doll looking away
	Track   lipgloss.Style
	Runner  lipgloss.Style
	Goal    lipgloss.Style
	Status  lipgloss.Style
	Win     lipgloss.Style
	Lose    lipgloss.Style
	Timeout lipgloss.Style
	HUD     lipgloss.Style
	Hint    lipgloss.Style
}

// NewStyles builds the palette on renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Red:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Green:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Track:   r.NewStyle().Foreground(lipgloss.Color("214")),
		Runner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Goal:    r.NewStyle().Foreground(lipgloss.Color("11")),
		Status:  r.NewStyle().Bold(true),
		Win:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Lose:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Timeout: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		HUD:     r.NewStyle().Foreground(lipgloss.Color("252")),
		Hint:    r.NewStyle().Faint(true),
	}
}
