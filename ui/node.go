package ui

import (
	"encoding/json"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Kind determines how a host renders a Node.
type Kind string

const (
	KindContainer     Kind = "container"
	KindContent       Kind = "content"
	KindView          Kind = "view"
	KindCard          Kind = "card"
	KindCardItem      Kind = "cardItem"
	KindText          Kind = "text"
	KindForm          Kind = "form"
	KindInput         Kind = "input"
	KindRepeatedInput Kind = "repeatedInput"
	KindButton        Kind = "button"
	KindFooter        Kind = "footer"
	KindHeader        Kind = "header"
	KindIconCard      Kind = "iconCard"
	KindErrorCard     Kind = "errorCard"
	KindStatusCard    Kind = "statusCard"
	KindList          Kind = "list"
	KindOption        Kind = "option"
)

// Icon names an icon from the app's icon set.
type Icon string

const (
	IconChatboxes       Icon = "chatboxes"
	IconCheckmarkCircle Icon = "checkmark-circle"
	IconAlert           Icon = "alert"
	IconLock            Icon = "lock"
)

// Style is a semantic text style; hosts map it to colors.
type Style string

const (
	StyleNormal  Style = ""
	StyleError   Style = "error"
	StylePrimary Style = "primary"
	StyleFaint   Style = "faint"
)

// Props that hosts recognize on input nodes.
const (
	PropInputType          = "inputType"
	PropLabel              = "label"
	PropFirstLabel         = "firstLabel"
	PropRepeatLabel        = "repeatLabel"
	PropValidationForced   = "validationForced"
	PropInitialValue       = "initialValue"
	PropShowInvalidMessage = "showInvalidMessage"
	PropSelected           = "selected"
	PropAutomaticScroll    = "enableAutomaticScroll"
)

// Node is one element of a view tree.
type Node struct {
	Kind     Kind                     `json:"kind"`
	Key      string                   `json:"key,omitempty"`
	TestID   string                   `json:"testID,omitempty"`
	Text     string                   `json:"text,omitempty"`
	Bold     bool                     `json:"bold,omitempty"`
	Style    Style                    `json:"style,omitempty"`
	Icon     Icon                     `json:"icon,omitempty"`
	Props    map[string]interface{}   `json:"props,omitempty"`
	Error    *irmamobile.SessionError `json:"error,omitempty"`
	Children []*Node                  `json:"children,omitempty"`

	// Command is sent when a button or option is pressed.
	Command Command `json:"-"`
	// OnChange builds the command sent when the value of an input changes.
	OnChange func(value string) Command `json:"-"`
}

func newNode(kind Kind, children []*Node) *Node {
	n := &Node{Kind: kind}
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func Container(testID string, children ...*Node) *Node {
	return newNode(KindContainer, children).WithTestID(testID)
}

// Content is the padded, scrollable body of a screen.
func Content(children ...*Node) *Node { return newNode(KindContent, children) }

func View(children ...*Node) *Node     { return newNode(KindView, children) }
func Card(children ...*Node) *Node     { return newNode(KindCard, children) }
func CardItem(children ...*Node) *Node { return newNode(KindCardItem, children) }
func Form(children ...*Node) *Node     { return newNode(KindForm, children) }
func Footer(children ...*Node) *Node   { return newNode(KindFooter, children) }
func List(children ...*Node) *Node     { return newNode(KindList, children) }

// Text returns a text node.
func Text(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Button returns a button that sends cmd when pressed.
func Button(label string, cmd Command) *Node {
	return &Node{Kind: KindButton, Text: label, Command: cmd}
}

// Header is the title bar of a screen; back is sent by its back action.
func Header(title string, back Command) *Node {
	return &Node{Kind: KindHeader, Text: title, Command: back}
}

// IconCard is a card showing a large icon above its children.
func IconCard(icon Icon, children ...*Node) *Node {
	n := newNode(KindIconCard, children)
	n.Icon = icon
	return n
}

// StatusCard is the card at the top of a session screen.
func StatusCard(heading, explanation *Node, children ...*Node) *Node {
	return newNode(KindStatusCard, append([]*Node{heading, explanation}, children...))
}

// Input is a single value entry field.
func Input(inputType InputType, label string, onChange func(string) Command) *Node {
	return &Node{
		Kind:     KindInput,
		OnChange: onChange,
		Props: map[string]interface{}{
			PropInputType: string(inputType),
			PropLabel:     label,
		},
	}
}

// RepeatedInput is a pair of entry fields whose values must match. Its OnChange is called with
// the value once both fields contain the same valid value, and with the empty string otherwise.
func RepeatedInput(inputType InputType, firstLabel, repeatLabel string, onChange func(string) Command) *Node {
	return &Node{
		Kind:     KindRepeatedInput,
		OnChange: onChange,
		Props: map[string]interface{}{
			PropInputType:   string(inputType),
			PropFirstLabel:  firstLabel,
			PropRepeatLabel: repeatLabel,
		},
	}
}

// Option is a selectable entry of a List.
func Option(label string, selected bool, cmd Command, children ...*Node) *Node {
	n := newNode(KindOption, children)
	n.Text = label
	n.Command = cmd
	n.Props = map[string]interface{}{PropSelected: selected}
	return n
}

func (n *Node) WithTestID(id string) *Node {
	n.TestID = id
	return n
}

func (n *Node) WithKey(key string) *Node {
	n.Key = key
	return n
}

func (n *Node) WithBold() *Node {
	n.Bold = true
	return n
}

func (n *Node) WithStyle(style Style) *Node {
	n.Style = style
	return n
}

func (n *Node) WithProp(name string, value interface{}) *Node {
	if n.Props == nil {
		n.Props = map[string]interface{}{}
	}
	n.Props[name] = value
	return n
}

// Prop returns the named prop, or nil.
func (n *Node) Prop(name string) interface{} {
	if n == nil || n.Props == nil {
		return nil
	}
	return n.Props[name]
}

// BoolProp returns the named prop if it is a bool, and false otherwise.
func (n *Node) BoolProp(name string) bool {
	b, _ := n.Prop(name).(bool)
	return b
}

// StringProp returns the named prop if it is a string, and "" otherwise.
func (n *Node) StringProp(name string) string {
	s, _ := n.Prop(name).(string)
	return s
}

type jsonCommand struct {
	Name string  `json:"name"`
	Args Command `json:"args"`
}

// MarshalJSON includes the commands attached to the node, so that a host on the other side of
// the wire can send them back to the command endpoint.
func (n *Node) MarshalJSON() ([]byte, error) {
	type node Node
	out := struct {
		*node
		Command  *jsonCommand `json:"command,omitempty"`
		OnChange string       `json:"onChange,omitempty"`
	}{node: (*node)(n)}
	if n.Command != nil {
		out.Command = &jsonCommand{Name: n.Command.CommandName(), Args: n.Command}
	}
	if n.OnChange != nil {
		if cmd := n.OnChange(""); cmd != nil {
			out.OnChange = cmd.CommandName()
		}
	}
	return json.Marshal(out)
}
