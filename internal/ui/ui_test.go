package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBar(t *testing.T, n int) *TabBar {
	t.Helper()
	var specs []PageSpec
	for i := 0; i < n; i++ {
		specs = append(specs, PageSpec{Title: "page", Body: "body"})
	}
	tabs, pages := NewPages(specs)
	b, err := NewTabBar(tabs, pages)
	require.NoError(t, err)
	return b
}

func assertOnlyActive(t *testing.T, b *TabBar, want int) {
	t.Helper()
	active, shown := 0, 0
	for i := range b.Tabs() {
		if b.Tabs()[i].HasClass(ActiveClass) {
			active++
			assert.Equal(t, want, i, "active tab")
		}
		if !b.Pages()[i].Hidden {
			shown++
			assert.Equal(t, want, i, "visible page")
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, shown)
	assert.Equal(t, want, b.Active())
}

func TestTabBarSelect(t *testing.T) {
	b := newBar(t, 4)
	assertOnlyActive(t, b, 0)
	for _, i := range []int{2, 3, 0, 1, 1} {
		require.True(t, b.Select(i))
		assertOnlyActive(t, b, i)
	}
}

func TestTabBarOutOfRangeIsNoop(t *testing.T) {
	b := newBar(t, 3)
	b.Select(1)
	assert.False(t, b.Select(3))
	assert.False(t, b.Select(-1))
	assertOnlyActive(t, b, 1)
}

func TestTabBarMismatch(t *testing.T) {
	tabs, pages := NewPages([]PageSpec{{Title: "a"}, {Title: "b"}})
	_, err := NewTabBar(tabs, pages[:1])
	assert.ErrorIs(t, err, ErrTabPageMismatch)
}

func TestTabBarEmpty(t *testing.T) {
	b, err := NewTabBar(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, b.Active())
	assert.False(t, b.Select(0))
	assert.False(t, b.HandleClick(1, 1))
}

func TestTabBarClickAndNotify(t *testing.T) {
	b := newBar(t, 3)
	b.Layout(rl.NewRectangle(0, 0, 320, 40), 10, 600)
	var got []int
	b.OnSelect(func(i int) { got = append(got, i) })

	// Tabs are 100 wide with 10 between them.
	assert.True(t, b.HandleClick(250, 20))
	assertOnlyActive(t, b, 2)
	assert.False(t, b.HandleClick(105, 20), "gap")
	assert.False(t, b.HandleClick(50, 60), "below the bar")
	assert.True(t, b.HandleClick(50, 20))
	assert.Equal(t, []int{2, 0}, got)

	assert.Equal(t, rl.NewRectangle(0, 40, 320, 560), b.Pages()[0].Bounds)
}

func TestNewPagesTitles(t *testing.T) {
	tabs, pages := NewPages([]PageSpec{{Title: "the teapot", Viewer: true}, {Title: "about"}})
	assert.Equal(t, "The Teapot", tabs[0].Text)
	assert.Equal(t, "About", tabs[1].Text)
	assert.True(t, pages[0].HasClass("viewer"))
	assert.True(t, pages[1].HasClass("page"))
	assert.False(t, pages[1].HasClass("viewer"))
}

const testCSS = `
/* tabs */
.tab { background: #222; color: #aaa; height: 36px }
.tab.is-active { background: #fff; color: rgba(0, 0, 0, 0.5) }
#explore, button { left: 50%; top: 12; width: 120; height: 40 }
.page .nested { color: red }
@media screen { .tab { color: white } }
`

func TestParseCSS(t *testing.T) {
	sheet, err := ParseCSS(testCSS)
	require.NoError(t, err)

	var sels []string
	for _, r := range sheet.Rules {
		sels = append(sels, r.Selector.String())
	}
	assert.Contains(t, sels, ".tab")
	assert.Contains(t, sels, ".tab.is-active")
	assert.Contains(t, sels, "#explore")
	assert.Contains(t, sels, "button")
	assert.NotContains(t, sels, ".page.nested")
}

func TestStyleFollowsClasses(t *testing.T) {
	sheet, err := ParseCSS(testCSS)
	require.NoError(t, err)
	e := New()
	e.SetStylesheet(sheet)

	tab := NewNode("tab", "tab", "", "One")
	assert.Equal(t, rl.NewColor(0x22, 0x22, 0x22, 255), e.Style(tab).Background)
	assert.Equal(t, int32(36), e.Style(tab).Height)

	tab.SetClass(ActiveClass, true)
	s := e.Style(tab)
	assert.Equal(t, rl.White, s.Background)
	assert.Equal(t, rl.NewColor(0, 0, 0, 128), s.Color)
	assert.Equal(t, int32(36), s.Height, "inherited from .tab")
}

func TestLayoutAndNodeAt(t *testing.T) {
	sheet, err := ParseCSS(testCSS)
	require.NoError(t, err)
	e := New()
	e.SetStylesheet(sheet)

	btn := NewNode("button", "", "explore", "Explore")
	panel := NewNode("panel", "", "", "")
	panel.Bounds = rl.NewRectangle(0, 0, 1000, 1000)
	e.SetNodes([]*Node{panel, btn})
	e.Layout(800, 600)

	assert.Equal(t, rl.NewRectangle(340, 12, 120, 40), btn.Bounds)
	assert.Same(t, btn, e.NodeAt(350, 20))
	assert.Same(t, panel, e.NodeAt(10, 500))

	btn.Hidden = true
	assert.Same(t, panel, e.NodeAt(350, 20))
}

func TestLayoutPicksUpClassChanges(t *testing.T) {
	sheet, err := ParseCSS(`.wide { width: 300 } .narrow { width: 50 }`)
	require.NoError(t, err)
	e := New()
	e.SetStylesheet(sheet)
	n := NewNode("panel", "narrow", "", "")
	e.SetNodes([]*Node{n})
	e.Layout(800, 600)
	assert.Equal(t, float32(50), n.Bounds.Width)

	n.SetClass("narrow", false)
	n.SetClass("wide", true)
	e.Layout(800, 600)
	assert.Equal(t, float32(300), n.Bounds.Width)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want rl.Color
		ok   bool
	}{
		{"#fff", rl.NewColor(255, 255, 255, 255), true},
		{"#333333", rl.NewColor(0x33, 0x33, 0x33, 255), true},
		{"rgba(0,0,0,0.25)", rl.NewColor(0, 0, 0, 64), true},
		{"rgb(10, 20, 30)", rl.NewColor(10, 20, 30, 255), true},
		{"transparent", rl.NewColor(0, 0, 0, 0), true},
		{"#ggg", rl.Black, false},
		{"rgba(1,2)", rl.Black, false},
		{"bogus", rl.Black, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSelector(t *testing.T) {
	sel, ok := ParseSelector("button#explore.big.primary")
	require.True(t, ok)
	assert.Equal(t, Selector{Type: "button", ID: "explore", Classes: []string{"big", "primary"}}, sel)

	for _, bad := range []string{"", ".a .b", "a > b", ".", "a:hover", "#x.y.z li"} {
		_, ok := ParseSelector(bad)
		assert.False(t, ok, bad)
	}
}

func TestExplanationAppend(t *testing.T) {
	ex := NewExplanation("")
	assert.Empty(t, ex.AppendNodes(nil, false, CameraInfo{}))
	assert.True(t, ex.Panel().Hidden)

	nodes := ex.AppendNodes(nil, true, CameraInfo{Position: [3]float32{1, 2, 3}, Distance: 4})
	require.Len(t, nodes, 4)
	assert.False(t, ex.Panel().Hidden)
	assert.Equal(t, "explanation", nodes[0].ID)
	assert.Equal(t, "Camera: 1, 2, 3  distance 4", nodes[3].Text)
}

func TestExplanationLayout(t *testing.T) {
	ex := NewExplanation("one\ntwo")
	nodes := ex.AppendNodes(nil, true, CameraInfo{})
	ex.Layout(rl.NewRectangle(0, 40, 1280, 680))

	panel := nodes[0].Bounds
	assert.Equal(t, float32(1280-explanationWidth-explanationPad), panel.X)
	assert.Equal(t, float32(40+explanationPad), panel.Y)
	assert.Equal(t, float32(4*explanationLine+2*explanationPad), panel.Height)

	body, camera := nodes[2].Bounds, nodes[3].Bounds
	assert.Equal(t, float32(2*explanationLine), body.Height)
	assert.Equal(t, body.Y+body.Height, camera.Y)
	assert.LessOrEqual(t, camera.Y+camera.Height, panel.Y+panel.Height)
}
