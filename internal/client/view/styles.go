// Package view renders search results, person details and recidivism
// panels for the terminal.
package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/domain"
)

var (
	colorOffender = lipgloss.Color("#e53935")
	colorNeutral  = lipgloss.Color("#607d8b")
	colorSuccess  = lipgloss.Color("#8BC34A")
	colorWarning  = lipgloss.Color("#FFC107")
	colorInfo     = lipgloss.Color("#2196F3")
	colorMuted    = lipgloss.Color("#9e9e9e")
)

// Styles groups every style used by the renderers.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Muted      lipgloss.Style
	Label      lipgloss.Style
	Offender   lipgloss.Style
	Neutral    lipgloss.Style
	Bar        lipgloss.Style
	Card       lipgloss.Style
	TierHigh   lipgloss.Style
	TierMedium lipgloss.Style
	TierLow    lipgloss.Style
	Notice     map[notify.Level]lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:     lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Label:    lipgloss.NewStyle().Bold(true).Width(24),
		Offender: badge.Foreground(lipgloss.Color("#ffffff")).Background(colorOffender),
		Neutral:  badge.Foreground(lipgloss.Color("#ffffff")).Background(colorNeutral),
		Bar:      lipgloss.NewStyle().Foreground(colorOffender),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNeutral).
			Padding(0, 1),
		TierHigh:   badge.Foreground(lipgloss.Color("#ffffff")).Background(colorOffender),
		TierMedium: badge.Foreground(lipgloss.Color("#000000")).Background(colorWarning),
		TierLow:    badge.Foreground(lipgloss.Color("#000000")).Background(colorSuccess),
		Notice: map[notify.Level]lipgloss.Style{
			notify.LevelInfo:    lipgloss.NewStyle().Foreground(colorInfo),
			notify.LevelSuccess: lipgloss.NewStyle().Foreground(colorSuccess),
			notify.LevelWarning: lipgloss.NewStyle().Foreground(colorWarning),
			notify.LevelError:   lipgloss.NewStyle().Foreground(colorOffender).Bold(true),
		},
	}
}

// Role returns the badge style for a role value.
func (s Styles) Role(role string) lipgloss.Style {
	if domain.IsOffenderRole(role) {
		return s.Offender
	}
	return s.Neutral
}

// Tier returns the badge style for a risk tier.
func (s Styles) Tier(t domain.RiskTier) lipgloss.Style {
	switch t {
	case domain.RiskHigh:
		return s.TierHigh
	case domain.RiskMedium:
		return s.TierMedium
	default:
		return s.TierLow
	}
}

// Notification renders n in its level's colour. A zero notification
// renders as the empty string.
func (s Styles) Notification(n notify.Notification) string {
	if n.IsZero() {
		return ""
	}
	style, ok := s.Notice[n.Level]
	if !ok {
		style = s.Cell
	}
	return style.Render(n.Message)
}
