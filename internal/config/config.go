package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"teapot-viewer/internal/label"
	"teapot-viewer/internal/teapot"
	"teapot-viewer/internal/ui"
	"teapot-viewer/internal/viewer"
)

// DefaultPath is the config file read when no other path is given, relative to the working directory.
const DefaultPath = "config/viewer.yaml"

// EnvPrefix prefixes environment overrides: TEAPOT_CANVAS_SCALE=1.5 sets canvas.scale.
const EnvPrefix = "TEAPOT"

var (
	ErrInvalid       = errors.New("config: invalid")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// Config is everything a viewing session needs.
type Config struct {
	Preset string         `yaml:"preset" mapstructure:"preset"`
	Window WindowConfig   `yaml:"window" mapstructure:"window"`
	Canvas CanvasConfig   `yaml:"canvas" mapstructure:"canvas"`
	Camera CameraConfig   `yaml:"camera" mapstructure:"camera"`
	Orbit  OrbitConfig    `yaml:"orbit" mapstructure:"orbit"`
	Scene  SceneConfig    `yaml:"scene" mapstructure:"scene"`
	Teapot teapot.Options `yaml:"teapot" mapstructure:"teapot"`
	Label  LabelConfig    `yaml:"label" mapstructure:"label"`
	UI     UIConfig       `yaml:"ui" mapstructure:"ui"`
	Log    LogConfig      `yaml:"log" mapstructure:"log"`
	Debug  DebugConfig    `yaml:"debug" mapstructure:"debug"`
}

type WindowConfig struct {
	Title      string `yaml:"title" mapstructure:"title"`
	Width      int32  `yaml:"width" mapstructure:"width"`
	Height     int32  `yaml:"height" mapstructure:"height"`
	Fullscreen bool   `yaml:"fullscreen" mapstructure:"fullscreen"`
	TargetFPS  int32  `yaml:"target_fps" mapstructure:"target_fps"`
}

// CanvasConfig sizes the 3D canvas from the window: multiplied by Scale, or divided by it.
type CanvasConfig struct {
	Scale float32 `yaml:"scale" mapstructure:"scale"`
	Mode  string  `yaml:"mode" mapstructure:"mode"`
}

type Vec3 struct {
	X float32 `yaml:"x" mapstructure:"x"`
	Y float32 `yaml:"y" mapstructure:"y"`
	Z float32 `yaml:"z" mapstructure:"z"`
}

func (v Vec3) Vector3() rl.Vector3 { return rl.NewVector3(v.X, v.Y, v.Z) }

type CameraConfig struct {
	FOV         float32 `yaml:"fov" mapstructure:"fov"`
	Position    Vec3    `yaml:"position" mapstructure:"position"`
	MinDistance float32 `yaml:"min_distance" mapstructure:"min_distance"`
	MaxDistance float32 `yaml:"max_distance" mapstructure:"max_distance"`
}

// OrbitConfig drives the idle orbit.
type OrbitConfig struct {
	Radius float32 `yaml:"radius" mapstructure:"radius"`
	Step   float64 `yaml:"step" mapstructure:"step"`
	Start  float64 `yaml:"start" mapstructure:"start"`
}

// SceneConfig covers the background, lights and world scale. Colours are CSS hex strings.
type SceneConfig struct {
	Skybox         string  `yaml:"skybox" mapstructure:"skybox"`
	FaceSize       int     `yaml:"face_size" mapstructure:"face_size"`
	Gamma          float64 `yaml:"gamma" mapstructure:"gamma"`
	Background     string  `yaml:"background" mapstructure:"background"`
	Ambient        string  `yaml:"ambient" mapstructure:"ambient"`
	LightColor     string  `yaml:"light_color" mapstructure:"light_color"`
	LightIntensity float32 `yaml:"light_intensity" mapstructure:"light_intensity"`
	LightDir       Vec3    `yaml:"light_dir" mapstructure:"light_dir"`
	Shininess      float32 `yaml:"shininess" mapstructure:"shininess"`
	Reflectivity   float32 `yaml:"reflectivity" mapstructure:"reflectivity"`
	UnitScale      float32 `yaml:"unit_scale" mapstructure:"unit_scale"`
}

type LabelConfig struct {
	Enabled       bool    `yaml:"enabled" mapstructure:"enabled"`
	Y             float32 `yaml:"y" mapstructure:"y"`
	label.Options `yaml:",inline" mapstructure:",squash"`
}

type UIConfig struct {
	Stylesheet      string        `yaml:"stylesheet" mapstructure:"stylesheet"`
	Font            string        `yaml:"font" mapstructure:"font"`
	Explanation     bool          `yaml:"explanation" mapstructure:"explanation"`
	ExplanationText string        `yaml:"explanation_text" mapstructure:"explanation_text"`
	Pages           []ui.PageSpec `yaml:"pages" mapstructure:"pages"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

type DebugConfig struct {
	ShowFPS      bool `yaml:"show_fps" mapstructure:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc" mapstructure:"show_memalloc"`
}

// Default returns the classic page: canvas at 0.75 of the window, camera at (0, 500, 3000),
// orbit distance 1000..5000, idle orbit radius 3000 stepping 0.001 from 1, the Utah teapot
// label and two pages.
func Default() *Config {
	return &Config{
		Preset: "classic",
		Window: WindowConfig{Title: "Teapot", Width: 1280, Height: 720, TargetFPS: 60},
		Canvas: CanvasConfig{Scale: 0.75, Mode: string(viewer.Multiply)},
		Camera: CameraConfig{
			FOV:         45,
			Position:    Vec3{0, 500, 3000},
			MinDistance: 1000,
			MaxDistance: 5000,
		},
		Orbit: OrbitConfig{Radius: 3000, Step: 0.001, Start: 1},
		Scene: SceneConfig{
			Skybox:         "assets/skybox",
			Gamma:          1,
			Background:     "#202020",
			Ambient:        "#333333",
			LightColor:     "#ffffff",
			LightIntensity: 1,
			LightDir:       Vec3{0, -1, 0},
			Shininess:      30,
			Reflectivity:   1,
			UnitScale:      0.01,
		},
		Teapot: teapot.DefaultOptions(),
		Label:  LabelConfig{Enabled: true, Y: 600, Options: label.DefaultOptions()},
		UI: UIConfig{
			Stylesheet: "assets/ui/viewer.css",
			Pages: []ui.PageSpec{
				{Title: "teapot", Viewer: true},
				{Title: "about", Body: "The Utah teapot, modelled by Martin Newell in 1975\nfrom 32 bicubic Bezier patches."},
			},
		},
		Log: LogConfig{Level: "info", File: "logs/viewer.log"},
	}
}

// LoadOptions select the file and preset. An empty Path reads DefaultPath when it exists; an
// explicit Path must exist. Preset, when set, wins over the file's preset key.
type LoadOptions struct {
	Path   string
	Preset string
}

// Load layers, lowest first: built-in defaults, the preset, the config file, TEAPOT_* env.
func Load(o LoadOptions) (*Config, error) {
	path := o.Path
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	v, err := layered(Default(), path)
	if err != nil {
		return nil, err
	}
	preset := o.Preset
	if preset == "" {
		preset = v.GetString("preset")
	}
	if preset != "" {
		base, err := GetPreset(preset)
		if err != nil {
			return nil, err
		}
		if v, err = layered(base, path); err != nil {
			return nil, err
		}
		v.Set("preset", preset)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// layered returns a viper instance seeded with base, the file at path (if any) merged over it,
// and env overrides enabled.
func layered(base *Config, path string) (*viper.Viper, error) {
	data, err := yaml.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.ViewerOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Teapot.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("%w: camera distance range %v..%v", ErrInvalid, c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
		errs = append(errs, fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.FOV))
	}
	if !(c.Scene.UnitScale > 0) {
		errs = append(errs, fmt.Errorf("%w: scene unit_scale %v", ErrInvalid, c.Scene.UnitScale))
	}
	if c.Label.Enabled {
		if err := c.Label.Options.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}

// ViewerOptions converts the session settings for the viewer package.
func (c *Config) ViewerOptions() viewer.Options {
	return viewer.Options{
		Scale:          c.Canvas.Scale,
		Mode:           viewer.CanvasMode(strings.ToLower(c.Canvas.Mode)),
		FOV:            c.Camera.FOV,
		CameraPosition: c.Camera.Position.Vector3(),
		MinDistance:    c.Camera.MinDistance,
		MaxDistance:    c.Camera.MaxDistance,
		Radius:         c.Orbit.Radius,
		Step:           c.Orbit.Step,
		StartRotation:  c.Orbit.Start,
		Explanation:    c.UI.Explanation,
	}
}
