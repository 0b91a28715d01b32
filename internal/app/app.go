// Package app assembles a viewing session from a Config: the window, the scene, the viewer
// state, the tabbed page UI and the debug overlay, driven by one frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"teapot-viewer/internal/config"
	"teapot-viewer/internal/debug"
	"teapot-viewer/internal/fonts"
	"teapot-viewer/internal/graphics"
	"teapot-viewer/internal/label"
	"teapot-viewer/internal/logger"
	"teapot-viewer/internal/orbit"
	"teapot-viewer/internal/scene"
	"teapot-viewer/internal/ui"
	"teapot-viewer/internal/viewer"
)

const (
	tabHeight    = 40
	tabGap       = 4
	buttonWidth  = 120
	buttonHeight = 36
	margin       = 12
)

var ErrNoViewerPage = errors.New("app: no page hosts the viewer")

// App is one running viewer. Build it with New, then call Run from the main goroutine.
type App struct {
	cfg   *config.Config
	log   *logger.Logger
	scene *scene.Scene
	view  *viewer.Viewer
	debug *debug.Debug

	engine      *ui.Engine
	tabs        *ui.TabBar
	viewerPage  int
	showTabs    bool
	explore     *ui.Node
	canvas      *ui.Node
	explanation *ui.Explanation
	base        []*ui.Node
	mouse       orbit.MouseInput

	window *graphics.Window
	loop   *graphics.Loop
}

// New prepares everything that does not need a window: geometry, cubemap images, the label
// bitmap, the viewer state and the UI nodes.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, engine: ui.New()}

	lights, background, err := sceneColors(cfg.Scene)
	if err != nil {
		return nil, err
	}
	var img *image.RGBA
	if cfg.Label.Enabled {
		opts := cfg.Label.Options
		opts.Font = a.resolveFont(opts.Font, "bold")
		if img, err = label.Render(opts); err != nil {
			return nil, fmt.Errorf("app: label: %w", err)
		}
	}
	a.scene, err = scene.New(scene.Options{
		Skybox:     cfg.Scene.Skybox,
		FaceSize:   cfg.Scene.FaceSize,
		Gamma:      cfg.Scene.Gamma,
		Background: background,
		Lights:     lights,
		UnitScale:  cfg.Scene.UnitScale,
		Teapot:     cfg.Teapot,
		Label:      img,
		LabelY:     cfg.Label.Y,
	}, log.Logger)
	if err != nil {
		return nil, err
	}
	a.view, err = viewer.New(cfg.ViewerOptions(), a.scene, log.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.buildUI(); err != nil {
		return nil, err
	}

	a.debug = debug.New(cfg.Debug.ShowFPS, cfg.Debug.ShowMemAlloc)
	a.debug.Status = a.status
	a.debug.Recent = log.Lines
	return a, nil
}

// sceneColors parses the CSS colours of the scene section.
func sceneColors(s config.SceneConfig) (scene.Lights, rl.Color, error) {
	var bad []string
	parse := func(name, v string) rl.Color {
		c, ok := ui.ParseColor(v)
		if !ok {
			bad = append(bad, fmt.Sprintf("%s %q", name, v))
		}
		return c
	}
	lights := scene.Lights{
		Ambient:      parse("ambient", s.Ambient),
		Color:        parse("light_color", s.LightColor),
		Intensity:    s.LightIntensity,
		Direction:    s.LightDir.Vector3(),
		Shininess:    s.Shininess,
		Specular:     scene.DefaultSpecular,
		Reflectivity: s.Reflectivity,
	}
	background := parse("background", s.Background)
	if len(bad) > 0 {
		return lights, background, fmt.Errorf("%w: scene colours: %s", config.ErrInvalid, strings.Join(bad, ", "))
	}
	return lights, background, nil
}

// resolveFont maps a font name to a file under fonts.DefaultDir. An empty or unknown name
// returns "", which selects the built-in face.
func (a *App) resolveFont(name string, prefer ...string) string {
	if name == "" {
		return ""
	}
	path, err := fonts.Find(fonts.DefaultDir, name, prefer...)
	if err != nil {
		a.log.Warn().Err(err).Str("font", name).Msg("using built-in font")
		return ""
	}
	return path
}

// buildUI creates the tabs, pages, explore button, canvas and explanation nodes. Without
// configured pages there is one viewer page and no tab bar.
func (a *App) buildUI() error {
	specs := a.cfg.UI.Pages
	a.showTabs = len(specs) > 0
	if !a.showTabs {
		specs = []ui.PageSpec{{Title: "teapot", Viewer: true}}
	}
	tabs, pages := ui.NewPages(specs)
	for _, t := range tabs {
		t.Hidden = !a.showTabs
	}
	bar, err := ui.NewTabBar(tabs, pages)
	if err != nil {
		return err
	}
	a.tabs = bar
	a.viewerPage = -1
	for i, p := range pages {
		if p.HasClass("viewer") {
			a.viewerPage = i
			break
		}
	}
	if a.viewerPage < 0 {
		return ErrNoViewerPage
	}
	a.tabs.OnSelect(func(i int) {
		a.log.Debug().Int("tab", i).Str("title", tabs[i].Text).Msg("tab selected")
	})

	a.canvas = ui.NewNode("canvas", "", "canvas", "")
	a.explore = ui.NewNode("button", "", "explore", a.view.ButtonLabel())
	a.explanation = ui.NewExplanation(a.cfg.UI.ExplanationText)
	a.base = append(a.base, pages...)
	a.base = append(a.base, tabs...)
	a.base = append(a.base, a.canvas, a.explore)
	a.engine.SetPainter("canvas", a.scene.DrawTo)
	a.nodes()
	return nil
}

// onViewer reports whether the page hosting the canvas is shown.
func (a *App) onViewer() bool { return a.tabs.Active() == a.viewerPage }

// nodes refreshes visibility and hands the node list for this frame to the engine.
func (a *App) nodes() {
	shown := a.onViewer()
	a.canvas.Hidden = !shown
	a.explore.Hidden = !shown
	nodes := append([]*ui.Node(nil), a.base...)
	pos := a.view.Camera.Position
	nodes = a.explanation.AppendNodes(nodes, shown && a.view.ExplanationVisible(), ui.CameraInfo{
		Position: [3]float32{pos.X, pos.Y, pos.Z},
		Distance: a.view.Controls.Distance(),
	})
	a.engine.SetNodes(nodes)
}

// layout positions the nodes for a screen of w x h.
func (a *App) layout(w, h int) {
	bar := float32(0)
	if a.showTabs {
		bar = tabHeight
	}
	a.tabs.Layout(rl.NewRectangle(0, 0, float32(w), bar), tabGap, float32(h))
	page := a.tabs.Pages()[a.viewerPage].Bounds
	cw, ch := a.view.CanvasSize()
	a.canvas.Bounds = fitRect(page, float32(cw), float32(ch))
	a.mouse.Bounds = a.canvas.Bounds
	a.explore.Bounds = rl.NewRectangle(page.X+margin, page.Y+margin, buttonWidth, buttonHeight)
	a.explanation.Layout(page)
}

// fitRect centres a w x h rectangle in area, shrinking it to fit while keeping its aspect.
func fitRect(area rl.Rectangle, w, h float32) rl.Rectangle {
	if w <= 0 || h <= 0 {
		return rl.NewRectangle(area.X, area.Y, 0, 0)
	}
	s := min(1, area.Width/w, area.Height/h)
	w, h = w*s, h*s
	return rl.NewRectangle(area.X+(area.Width-w)/2, area.Y+(area.Height-h)/2, w, h)
}

// toggleExplore flips the mode and relabels the button.
func (a *App) toggleExplore() {
	text, _ := a.view.ToggleExplore()
	a.explore.Text = text
	a.nodes()
}

// selectTab switches pages; explore state survives the switch.
func (a *App) selectTab(i int) {
	if a.tabs.Select(i) {
		a.nodes()
	}
}

// click routes a left click to the tab bar, then the explore button.
func (a *App) click(x, y float32) {
	if a.tabs.HandleClick(x, y) {
		a.nodes()
		return
	}
	if !a.explore.Hidden && a.explore.Contains(x, y) {
		a.toggleExplore()
	}
}

// status feeds the debug overlay.
func (a *App) status() []string {
	w, h := a.view.CanvasSize()
	return []string{
		fmt.Sprintf("rotation: %.3f", a.view.Rotation()),
		fmt.Sprintf("exploring: %t", a.view.Exploring()),
		fmt.Sprintf("canvas: %dx%d", w, h),
		fmt.Sprintf("distance: %.0f", a.view.Controls.Distance()),
		"session: " + a.view.ID.String()[:8],
	}
}

// resize recomputes the canvas and the layout from the window size.
func (a *App) resize() error {
	w, h := a.window.Size()
	if err := a.view.Resize(w, h); err != nil {
		return err
	}
	a.layout(w, h)
	return nil
}

// update handles input and renders the canvas for this frame.
func (a *App) update(float32) {
	if a.window.Resized() {
		if err := a.resize(); err != nil {
			a.log.Error().Err(err).Msg("resize failed")
		}
	}
	switch key := rl.GetKeyPressed(); {
	case key == rl.KeyE:
		a.toggleExplore()
	case key == rl.KeyF1:
		a.debug.Toggle()
	case key >= rl.KeyOne && key <= rl.KeyNine:
		a.selectTab(int(key - rl.KeyOne))
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		p := rl.GetMousePosition()
		a.click(p.X, p.Y)
	}

	var in orbit.Input
	if a.onViewer() {
		in = &a.mouse
	}
	a.view.Frame(in)
	if a.view.ExplanationVisible() {
		a.nodes()
	}
}

func (a *App) draw() {
	a.engine.Draw()
	a.debug.Draw()
}

// Run opens the window and runs frames until ctx is cancelled or the window closes. GPU
// resources are released before it returns. Call from the main goroutine.
func (a *App) Run(ctx context.Context) error {
	wc := a.cfg.Window
	a.window = graphics.OpenWindow(graphics.WindowOptions{
		Title:      wc.Title,
		Width:      wc.Width,
		Height:     wc.Height,
		TargetFPS:  wc.TargetFPS,
		Fullscreen: wc.Fullscreen,
	})
	defer a.window.Close()
	a.window.Clear, _ = ui.ParseColor(a.cfg.Scene.Background)

	if path := a.cfg.UI.Stylesheet; path != "" {
		if err := a.engine.LoadCSS(path); err != nil {
			a.log.Warn().Err(err).Msg("stylesheet not loaded")
		}
	}
	if path := a.resolveFont(a.cfg.UI.Font); path != "" {
		if err := a.engine.LoadFont(path); err != nil {
			a.log.Warn().Err(err).Msg("ui font not loaded")
		}
	}
	defer a.engine.UnloadFont()
	defer a.scene.Close()

	if err := a.resize(); err != nil {
		return err
	}
	a.log.Info().
		Str("session", a.view.ID.String()).
		Str("preset", a.cfg.Preset).
		Bool("cubemap", a.scene.HasCubemap()).
		Msg("viewer started")

	a.loop = graphics.NewLoop(a.window, a.update, a.draw)
	err := a.loop.Run(ctx)
	a.log.Info().Uint64("frames", a.view.Frames()).Msg("viewer stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
