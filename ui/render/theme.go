package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the terminal renderer. All colors use lipgloss ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	ErrorText  lipgloss.Color

	HeadingForeground lipgloss.Color
	BorderColor       lipgloss.Color

	ButtonForeground lipgloss.Color
	ButtonBackground lipgloss.Color

	// Focused interactive element.
	SelectedForeground lipgloss.Color
	SelectedBackground lipgloss.Color

	// Plain disables all styling, for output that is not a terminal.
	Plain bool
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	ErrorText:          lipgloss.Color("203"),
	HeadingForeground:  lipgloss.Color("75"),
	BorderColor:        lipgloss.Color("240"),
	ButtonForeground:   lipgloss.Color("231"),
	ButtonBackground:   lipgloss.Color("25"),
	SelectedForeground: lipgloss.Color("16"),
	SelectedBackground: lipgloss.Color("220"),
}

// PlainTheme renders without colors or text attributes.
var PlainTheme = Theme{Plain: true}

func (theme Theme) style(fg lipgloss.Color) lipgloss.Style {
	if theme.Plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(fg)
}
