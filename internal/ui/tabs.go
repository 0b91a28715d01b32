package ui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ActiveClass marks the selected tab.
const ActiveClass = "is-active"

var ErrTabPageMismatch = errors.New("ui: tab and page counts differ")

// TabBar pairs tabs with pages by position. Exactly one tab is active and exactly one page is
// shown once anything has been selected.
type TabBar struct {
	tabs     []*Node
	pages    []*Node
	active   int
	onSelect []func(int)
}

// NewTabBar binds tabs[i] to pages[i] and selects the first pair.
func NewTabBar(tabs, pages []*Node) (*TabBar, error) {
	if len(tabs) != len(pages) {
		return nil, fmt.Errorf("%w: %d tabs, %d pages", ErrTabPageMismatch, len(tabs), len(pages))
	}
	b := &TabBar{tabs: tabs, pages: pages, active: -1}
	b.Select(0)
	return b, nil
}

// Len returns the number of tab/page pairs.
func (b *TabBar) Len() int { return len(b.tabs) }

// Active returns the selected index, or -1 for an empty bar.
func (b *TabBar) Active() int { return b.active }

// Tabs returns the tab nodes.
func (b *TabBar) Tabs() []*Node { return b.tabs }

// Pages returns the page nodes.
func (b *TabBar) Pages() []*Node { return b.pages }

// OnSelect subscribes fn to selections; it receives the new index.
func (b *TabBar) OnSelect(fn func(int)) {
	b.onSelect = append(b.onSelect, fn)
}

// Select deactivates every tab and hides every page, then activates tab i and shows page i.
// An index out of range changes nothing and returns false.
func (b *TabBar) Select(i int) bool {
	if i < 0 || i >= len(b.tabs) {
		return false
	}
	for j := range b.tabs {
		b.tabs[j].SetClass(ActiveClass, false)
		b.pages[j].Hidden = true
	}
	b.tabs[i].SetClass(ActiveClass, true)
	b.pages[i].Hidden = false
	b.active = i
	for _, fn := range b.onSelect {
		fn(i)
	}
	return true
}

// HandleClick selects the tab under the point, if any.
func (b *TabBar) HandleClick(x, y float32) bool {
	for i, t := range b.tabs {
		if !t.Hidden && t.Contains(x, y) {
			return b.Select(i)
		}
	}
	return false
}

// Layout spreads the tabs across area left to right, each as wide as its share minus gap,
// and gives every page the space below the bar down to the bottom of screen.
func (b *TabBar) Layout(area rl.Rectangle, gap float32, screenH float32) {
	n := float32(len(b.tabs))
	if n == 0 {
		return
	}
	w := (area.Width - gap*(n-1)) / n
	for i, t := range b.tabs {
		t.Bounds = rl.NewRectangle(area.X+float32(i)*(w+gap), area.Y, w, area.Height)
	}
	for _, p := range b.pages {
		p.Bounds = rl.NewRectangle(area.X, area.Y+area.Height, area.Width, screenH-area.Y-area.Height)
	}
}

// PageSpec describes one page: its tab title and body text. Viewer marks the page that hosts
// the 3D canvas.
type PageSpec struct {
	Title  string `yaml:"title" mapstructure:"title"`
	Body   string `yaml:"body" mapstructure:"body"`
	Viewer bool   `yaml:"viewer" mapstructure:"viewer"`
}

// NewPages builds tab and page nodes for specs. Titles are title-cased.
func NewPages(specs []PageSpec) (tabs, pages []*Node) {
	caser := cases.Title(language.English)
	for _, s := range specs {
		tabs = append(tabs, NewNode("tab", "tab", "", caser.String(s.Title)))
		class := "page"
		if s.Viewer {
			class += " viewer"
		}
		pages = append(pages, NewNode("page", class, "", s.Body))
	}
	return tabs, pages
}
