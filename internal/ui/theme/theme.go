// Package theme holds the colours and styles shared by every screen.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Lantern light on a night sea.
var (
	Primary   = lipgloss.Color("#E0A458") // lantern
	Secondary = lipgloss.Color("#5FB3B3") // sea glass
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	plain    = lipgloss.NewStyle()
	bordered = plain.Border(lipgloss.RoundedBorder()).BorderForeground(Border)
	pill     = plain.Bold(true).Padding(0, 2)
)

// Text styles.
var (
	Title     = plain.Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle  = plain.Foreground(TextDim).Align(lipgloss.Center)
	Body      = plain.Foreground(Text)
	Hint      = plain.Foreground(TextDim).Italic(true)
	ErrorText = plain.Foreground(Error).Bold(true)
	Spinner   = plain.Foreground(Secondary)
)

// Boxes.
var (
	// Bar frames the header and footer.
	Bar           = bordered.Background(BgCard)
	Card          = bordered.Background(BgCard).Padding(1, 2)
	InputBox      = bordered.Padding(0, 1)
	InputBoxError = InputBox.BorderForeground(Error)
)

// Menu rows.
var (
	Selected   = plain.Foreground(Primary).Bold(true)
	Unselected = plain.Foreground(Text)
	Disabled   = plain.Foreground(Border)
)

// Buttons and ending banners.
var (
	ButtonActive   = pill.Background(Primary).Foreground(BgDark)
	ButtonInactive = bordered.Background(BgCard).Padding(0, 2)
	WinBanner      = pill.Background(Success).Foreground(BgDark)
	LoseBanner     = pill.Background(Error).Foreground(Text)
)
