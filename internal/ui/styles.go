package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan: keys and headings
	colorAccent     = lipgloss.Color("#FFD700") // Gold: aliases, warnings
	colorSuccess    = lipgloss.Color("#00E676") // Green
	colorDanger     = lipgloss.Color("#FF5252") // Red: errors, inline field errors
	colorMuted      = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight = lipgloss.Color("#8C8C8C") // Lighter gray: labels
	colorWhite      = lipgloss.Color("#EEEEEE") // Off-white: values
)

// Status icons.
const (
	iconDone   = "✓"
	iconFailed = "✗"
	iconWarn   = "⚠"
)

type styles struct {
	heading lipgloss.Style
	key     lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	inline  lipgloss.Style
	alias   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Foreground(colorPrimary).Bold(true),
		key:     r.NewStyle().Foreground(colorPrimary),
		label:   r.NewStyle().Foreground(colorMutedLight).Bold(true),
		value:   r.NewStyle().Foreground(colorWhite),
		inline:  r.NewStyle().Foreground(colorDanger),
		alias:   r.NewStyle().Foreground(colorAccent),
		muted:   r.NewStyle().Foreground(colorMuted),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		danger:  r.NewStyle().Foreground(colorDanger).Bold(true),
		warn:    r.NewStyle().Foreground(colorAccent).Bold(true),
	}
}

// plainRenderer never emits escape codes regardless of the environment.
func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	r.SetColorProfile(termenv.Ascii)
	return r
}
