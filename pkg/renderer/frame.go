package renderer

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Frame is a rendered image: a header-less pixel body in row-major order,
// top row first, as produced by an Encoder
type Frame struct {
	Width  int
	Height int
	Body   []byte
}

// PPMHeader returns the plain-text PPM header for the frame
func (f *Frame) PPMHeader() string {
	return fmt.Sprintf("P3\n%d %d\n255\n", f.Width, f.Height)
}

// WriteTo writes the PPM header followed by the body. The body must have been
// produced by PPMEncoder.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.PPMHeader())
	if err != nil {
		return int64(n), fmt.Errorf("failed to write header: %w", err)
	}
	m, err := w.Write(f.Body)
	if err != nil {
		return int64(n + m), fmt.Errorf("failed to write pixels: %w", err)
	}
	return int64(n + m), nil
}

// Image converts a frame produced by RGBEncoder into an image
func (f *Frame) Image() (*image.RGBA, error) {
	if want := f.Width * f.Height * 3; len(f.Body) != want {
		return nil, fmt.Errorf("frame body has %d bytes, expected %d for %dx%d RGB", len(f.Body), want, f.Width, f.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for j := 0; j < f.Height; j++ {
		for i := 0; i < f.Width; i++ {
			k := (j*f.Width + i) * 3
			img.SetRGBA(i, j, color.RGBA{R: f.Body[k], G: f.Body[k+1], B: f.Body[k+2], A: 255})
		}
	}
	return img, nil
}

// EncodePNG writes a frame produced by RGBEncoder to w as a PNG
func (f *Frame) EncodePNG(w io.Writer) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := gg.NewContextForRGBA(img).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes a frame produced by RGBEncoder to path as a PNG
func (f *Frame) SavePNG(path string) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
