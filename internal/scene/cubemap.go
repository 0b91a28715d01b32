package scene

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// FaceNames are the cube faces in the order of a horizontal cross strip: +X, -X, +Y, -Y, +Z, -Z.
var FaceNames = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// faceExts are tried in order for each face.
var faceExts = []string{".png", ".jpg", ".jpeg"}

var (
	ErrMissingFace = errors.New("scene: missing cubemap face")
	ErrFaceSize    = errors.New("scene: cubemap faces differ in size")
)

// FacePath returns the first existing file for face name under dir.
func FacePath(dir, name string) (string, error) {
	for _, ext := range faceExts {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrMissingFace, name, dir)
}

// LoadFaces reads the six faces from dir. They must be square and the same size. size > 0
// resamples every face to size x size; gamma other than 0 or 1 is applied to each face.
func LoadFaces(dir string, size int, gamma float64) ([6]image.Image, error) {
	var faces [6]image.Image
	var first image.Rectangle
	for i, name := range FaceNames {
		path, err := FacePath(dir, name)
		if err != nil {
			return faces, err
		}
		img, err := imgio.Open(path)
		if err != nil {
			return faces, fmt.Errorf("scene: open %s: %w", path, err)
		}
		b := img.Bounds()
		if i == 0 {
			first = b
		}
		if b.Dx() != b.Dy() || b.Size() != first.Size() {
			return faces, fmt.Errorf("%w: %s is %dx%d, %s is %dx%d",
				ErrFaceSize, name, b.Dx(), b.Dy(), FaceNames[0], first.Dx(), first.Dy())
		}
		if size > 0 && size != b.Dx() {
			img = transform.Resize(img, size, size, transform.Linear)
		}
		if gamma > 0 && gamma != 1 {
			img = adjust.Gamma(img, gamma)
		}
		faces[i] = img
	}
	return faces, nil
}

// ComposeStrip lays the faces side by side in FaceNames order, the 6:1 layout raylib detects
// as a horizontal line cubemap.
func ComposeStrip(faces [6]image.Image) (*image.RGBA, error) {
	if faces[0] == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFace, FaceNames[0])
	}
	side := faces[0].Bounds().Dx()
	strip := image.NewRGBA(image.Rect(0, 0, side*6, side))
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFace, FaceNames[i])
		}
		b := f.Bounds()
		if b.Dx() != side || b.Dy() != side {
			return nil, fmt.Errorf("%w: %s", ErrFaceSize, FaceNames[i])
		}
		draw.Draw(strip, image.Rect(i*side, 0, (i+1)*side, side), f, b.Min, draw.Src)
	}
	return strip, nil
}
