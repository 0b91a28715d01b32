package ui

import (
	"slices"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, button, tab or page. It has optional classes and
// an id for CSS matching, bounds, optional text, and a hidden flag.
type Node struct {
	Type    string   // "panel", "label", "button", "tab", "page", ...
	Classes []string // e.g. ["tab", "is-active"] for .tab.is-active
	ID      string   // e.g. "explore" for #explore
	Bounds  rl.Rectangle
	Text    string
	Hidden  bool

	// rev changes whenever the classes change so cached styles can be refreshed.
	rev uint32
}

// NewNode creates a node. class may hold several space separated class names.
func NewNode(typ, class, id, text string) *Node {
	return &Node{
		Type:    typ,
		Classes: strings.Fields(class),
		ID:      id,
		Text:    text,
	}
}

// HasClass reports whether the node carries class c.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes, c)
}

// SetClass adds or removes class c.
func (n *Node) SetClass(c string, on bool) {
	i := slices.Index(n.Classes, c)
	switch {
	case on && i < 0:
		n.Classes = append(n.Classes, c)
	case !on && i >= 0:
		n.Classes = slices.Delete(n.Classes, i, i+1)
	default:
		return
	}
	n.rev++
}

// Contains reports whether the point lies inside the node's bounds.
func (n *Node) Contains(x, y float32) bool {
	b := n.Bounds
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}
