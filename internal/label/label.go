// Package label renders the floating text label: one line of text fitted to a target width
// and centred on a translucent backing rectangle.
package label

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	ErrEmptyText   = errors.New("label: empty text")
	ErrInvalidSize = errors.New("label: invalid bitmap size")
	ErrInvalidText = errors.New("label: text width and font size must be positive")
)

var (
	// Background fills the whole bitmap.
	Background = color.NRGBA{A: 64}
	// Foreground is the text colour.
	Foreground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Options describe the label bitmap. Font is a path to a TTF/OTF file; empty uses Go Bold.
type Options struct {
	Text      string  `yaml:"text" mapstructure:"text"`
	Width     int     `yaml:"width" mapstructure:"width"`
	Height    int     `yaml:"height" mapstructure:"height"`
	TextWidth float64 `yaml:"text_width" mapstructure:"text_width"`
	FontSize  float64 `yaml:"font_size" mapstructure:"font_size"`
	Font      string  `yaml:"font" mapstructure:"font"`
}

// DefaultOptions returns a 1240x240 bitmap with "The Utah Teapot" fitted into 1200 pixels at 200px.
func DefaultOptions() Options {
	return Options{
		Text:      "The Utah Teapot",
		Width:     1240,
		Height:    240,
		TextWidth: 1200,
		FontSize:  200,
	}
}

// FitScale returns the horizontal scale that brings text measured at measured pixels within
// target pixels. Text that already fits is left at 1.
func FitScale(target, measured float64) float64 {
	if measured <= 0 || measured <= target {
		return 1
	}
	return target / measured
}

// Measure returns the unscaled advance width of the text in pixels.
func Measure(o Options) (float64, error) {
	face, err := loadFace(o.Font, o.FontSize)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return toFloat(font.MeasureString(face, o.Text)), nil
}

// Render draws the label. The text keeps its height; only its width is scaled by FitScale.
func Render(o Options) (*image.RGBA, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	face, err := loadFace(o.Font, o.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	advance := font.MeasureString(face, o.Text)
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	text := image.NewRGBA(image.Rect(0, 0, advance.Ceil(), ascent+descent))
	d := &font.Drawer{
		Dst:  text,
		Src:  image.NewUniform(Foreground),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(o.Text)

	out := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(out, out.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	w := int(math.Round(toFloat(advance) * FitScale(o.TextWidth, toFloat(advance))))
	h := text.Bounds().Dy()
	x0 := (o.Width - w) / 2
	y0 := Baseline(o.Height, m.Ascent, m.Descent, o.FontSize) - ascent
	draw.BiLinear.Scale(out, image.Rect(x0, y0, x0+w, y0+h), text, text.Bounds(), draw.Over, nil)
	return out, nil
}

// Baseline returns the baseline row that puts the middle of the em square on the middle of a
// bitmap of the given height. The em square splits size in the ratio of ascent to descent.
func Baseline(height int, ascent, descent fixed.Int26_6, size float64) int {
	a, d := toFloat(ascent), toFloat(descent)
	if a+d <= 0 {
		return height / 2
	}
	em := size / (a + d)
	return int(math.Round(float64(height)/2 + (a-d)*em/2))
}

// Validate checks what Render needs from the options.
func (o Options) Validate() error {
	if o.Text == "" {
		return ErrEmptyText
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.Width, o.Height)
	}
	if !(o.TextWidth > 0) || !(o.FontSize > 0) {
		return fmt.Errorf("%w: text_width %v, font_size %v", ErrInvalidText, o.TextWidth, o.FontSize)
	}
	return nil
}

func loadFace(path string, size float64) (font.Face, error) {
	data := gobold.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("label: read font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("label: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("label: font face: %w", err)
	}
	return face, nil
}

func toFloat(x fixed.Int26_6) float64 { return float64(x) / 64 }
