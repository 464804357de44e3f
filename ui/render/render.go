// Package render draws ui node trees as text for terminals.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/privacybydesign/irmamobile/ui"
)

var iconGlyphs = map[ui.Icon]string{
	ui.IconChatboxes:       "…",
	ui.IconCheckmarkCircle: "✓",
	ui.IconAlert:           "!",
	ui.IconLock:            "#",
}

// Renderer turns a node tree into a string.
type Renderer struct {
	Theme Theme
	Width int

	// Focus is highlighted, if set.
	Focus *ui.Node
	// Value returns the current value of an input node; inputs render empty if nil.
	// For repeated inputs it is called with the node, and RepeatValue for the second field.
	Value       func(n *ui.Node) string
	RepeatValue func(n *ui.Node) string
	// Message returns a validation message to show below an input, or "".
	Message func(n *ui.Node) string
}

// New returns a renderer with the given theme and width.
func New(theme Theme, width int) *Renderer {
	return &Renderer{Theme: theme, Width: width}
}

// Render draws the tree rooted at n.
func (r *Renderer) Render(n *ui.Node) string {
	return strings.TrimRight(r.node(n, r.Width), "\n")
}

func (r *Renderer) node(n *ui.Node, width int) string {
	if n == nil {
		return ""
	}

	switch n.Kind {
	case ui.KindText:
		return r.text(n)
	case ui.KindCard, ui.KindStatusCard, ui.KindErrorCard:
		return r.box(r.children(n, width-4), width)
	case ui.KindIconCard:
		glyph := iconGlyphs[n.Icon]
		if glyph == "" {
			glyph = "?"
		}
		icon := r.Theme.style(r.Theme.HeadingForeground).Bold(!r.Theme.Plain).Render("[" + glyph + "]")
		return r.box(lipgloss.JoinHorizontal(lipgloss.Top, icon, " ", r.children(n, width-8)), width)
	case ui.KindCardItem:
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			parts = append(parts, r.node(child, width))
		}
		return strings.Join(parts, " ")
	case ui.KindHeader:
		title := r.Theme.style(r.Theme.HeadingForeground).Bold(!r.Theme.Plain).Render(n.Text)
		return r.focusable(n, "←") + " " + title
	case ui.KindButton:
		return r.focusable(n, "[ "+n.Text+" ]")
	case ui.KindOption:
		mark := "( )"
		if n.BoolProp(ui.PropSelected) {
			mark = "(•)"
		}
		line := r.focusable(n, mark+" "+n.Text)
		if len(n.Children) > 0 {
			line += "\n" + indent(r.children(n, width-4), "    ")
		}
		return line
	case ui.KindInput:
		return r.input(n, n.StringProp(ui.PropLabel), r.Value)
	case ui.KindRepeatedInput:
		return r.input(n, n.StringProp(ui.PropFirstLabel), r.Value) + "\n" +
			r.input(n, n.StringProp(ui.PropRepeatLabel), r.RepeatValue)
	case ui.KindFooter:
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			parts = append(parts, r.node(child, width))
		}
		separator := r.Theme.style(r.Theme.BorderColor).Render(strings.Repeat("─", max(width, 1)))
		return separator + "\n" + strings.Join(parts, "  ")
	default:
		return r.children(n, width)
	}
}

func (r *Renderer) children(n *ui.Node, width int) string {
	parts := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		if s := r.node(child, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) text(n *ui.Node) string {
	var style lipgloss.Style
	switch n.Style {
	case ui.StyleError:
		style = r.Theme.style(r.Theme.ErrorText)
	case ui.StyleFaint:
		style = r.Theme.style(r.Theme.FaintText)
	case ui.StylePrimary:
		style = r.Theme.style(r.Theme.HeadingForeground)
	default:
		style = r.Theme.style(r.Theme.NormalText)
	}
	if n.Bold && !r.Theme.Plain {
		style = style.Bold(true)
	}
	return style.Render(n.Text)
}

func (r *Renderer) box(content string, width int) string {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if !r.Theme.Plain {
		style = style.BorderForeground(r.Theme.BorderColor)
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}

func (r *Renderer) input(n *ui.Node, label string, value func(*ui.Node) string) string {
	var v string
	if value != nil {
		v = value(n)
	}
	if ui.InputType(n.StringProp(ui.PropInputType)) == ui.InputTypePin {
		v = strings.Repeat("•", len([]rune(v)))
	}
	line := r.focusable(n, label+": "+v+"_")
	if r.Message != nil {
		if msg := r.Message(n); msg != "" {
			line += "\n" + r.Theme.style(r.Theme.ErrorText).Render(msg)
		}
	}
	return line
}

func (r *Renderer) focusable(n *ui.Node, s string) string {
	if r.Focus != nil && r.Focus == n {
		if r.Theme.Plain {
			return "> " + s
		}
		return lipgloss.NewStyle().
			Foreground(r.Theme.SelectedForeground).
			Background(r.Theme.SelectedBackground).
			Render(s)
	}
	if n.Kind == ui.KindButton && !r.Theme.Plain {
		return lipgloss.NewStyle().
			Foreground(r.Theme.ButtonForeground).
			Background(r.Theme.ButtonBackground).
			Render(s)
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
