package ui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Engine holds the current stylesheet and nodes, lays them out and draws them with raylib.
// Draw order is node order. Resolved styles are cached per node and recomputed only when the
// stylesheet, the node list or a node's classes change.
// If a font is loaded (LoadFont), text is drawn with it; otherwise raylib's default font is used.
type Engine struct {
	sheet  *Stylesheet
	nodes  []*Node
	styles []ComputedStyle
	revs   []uint32
	valid  bool
	font   rl.Font
	paint  map[string]func(bounds rl.Rectangle)
}

// New creates an empty UI engine.
func New() *Engine {
	return &Engine{}
}

// LoadCSS loads and parses a CSS file from path, replacing the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: load css: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded CSS).
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.valid = false
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet { return e.sheet }

// LoadFont loads a TTF font for text rendering. Needs the window to be open.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return fmt.Errorf("ui: load font %s: %w", path, os.ErrNotExist)
	}
	e.UnloadFont()
	e.font = f
	return nil
}

// UnloadFont releases the loaded font, if any.
func (e *Engine) UnloadFont() {
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
		e.font = rl.Font{}
	}
}

// SetPainter registers fn to draw the content of the node with the given id, after its
// background and before its border and text. A nil fn removes it.
func (e *Engine) SetPainter(id string, fn func(bounds rl.Rectangle)) {
	if e.paint == nil {
		e.paint = make(map[string]func(rl.Rectangle))
	}
	if fn == nil {
		delete(e.paint, id)
		return
	}
	e.paint[id] = fn
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
	e.valid = false
}

// Nodes returns the current node list.
func (e *Engine) Nodes() []*Node { return e.nodes }

// Style returns the computed style of n, which need not be one of the engine's nodes.
func (e *Engine) Style(n *Node) ComputedStyle {
	return ResolveProps(e.resolveProps(n))
}

// resolveProps returns merged properties for a node; later rules win.
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for _, rule := range e.sheet.Rules {
		if rule.Selector.Matches(n) {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

func (e *Engine) refresh() {
	if !e.valid || len(e.styles) != len(e.nodes) {
		e.styles = make([]ComputedStyle, len(e.nodes))
		e.revs = make([]uint32, len(e.nodes))
		for i, n := range e.nodes {
			e.styles[i] = e.Style(n)
			e.revs[i] = n.rev
		}
		e.valid = true
		return
	}
	for i, n := range e.nodes {
		if e.revs[i] != n.rev {
			e.styles[i] = e.Style(n)
			e.revs[i] = n.rev
		}
	}
}

// Layout resolves styles and writes each node's final bounds for a screen of the given size.
// Positions the stylesheet leaves unset keep whatever the caller put in Bounds.
func (e *Engine) Layout(screenW, screenH int32) {
	e.refresh()
	for i, n := range e.nodes {
		s := e.styles[i]
		if s.Width > 0 {
			n.Bounds.Width = float32(s.Width)
		}
		if s.Height > 0 {
			n.Bounds.Height = float32(s.Height)
		}
		switch {
		case s.LeftPct >= 0:
			n.Bounds.X = float32((screenW - int32(n.Bounds.Width)) * s.LeftPct / 100)
		case s.HasLeft:
			n.Bounds.X = float32(s.Left)
		}
		switch {
		case s.TopPct >= 0:
			n.Bounds.Y = float32((screenH - int32(n.Bounds.Height)) * s.TopPct / 100)
		case s.HasTop:
			n.Bounds.Y = float32(s.Top)
		}
	}
}

// NodeAt returns the topmost visible node containing the point, or nil.
func (e *Engine) NodeAt(x, y float32) *Node {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if n := e.nodes[i]; !n.Hidden && n.Contains(x, y) {
			return n
		}
	}
	return nil
}

// Draw lays out and draws every visible node: background, painter, 1px border, then text.
func (e *Engine) Draw() {
	e.Layout(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	for i, n := range e.nodes {
		if n.Hidden {
			continue
		}
		style := e.styles[i]
		x, y := int32(n.Bounds.X), int32(n.Bounds.Y)
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)
		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if fn, ok := e.paint[n.ID]; ok && n.ID != "" {
			fn(n.Bounds)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text != "" {
			tx, ty := x+style.Padding, y+style.Padding
			if e.font.Texture.ID != 0 {
				rl.DrawTextEx(e.font, n.Text, rl.NewVector2(float32(tx), float32(ty)), float32(style.FontSize), 1, style.Color)
			} else {
				rl.DrawText(n.Text, tx, ty, style.FontSize, style.Color)
			}
		}
	}
}
