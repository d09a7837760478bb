// Package imageio adapts the external image codecs this module depends on
// (BMP via golang.org/x/image/bmp, a generic EXIF-aware decoder via
// disintegration/imaging for the batch tool, and this module's own
// hand-written 1-bit TIFF writer) to the pixbuf buffer types every engine
// operates on.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"

	"github.com/S4nh1seR/imgcores/internal/metrics"
	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Mode selects how LoadAny interprets the decoded pixels.
type Mode int

const (
	// ModeGray decodes to a single-channel buffer, converting color input
	// via the module's luma transform.
	ModeGray Mode = iota
	// ModeColor decodes to a three-channel BGR buffer.
	ModeColor
)

// LoadGray reads a BMP file and returns it as a single-channel buffer,
// converting to luma if the source is color.
func LoadGray(path string) (*pixbuf.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decoding %s: %w", path, err)
	}
	return grayFromImage(img), nil
}

// LoadColor reads a BMP file and returns it as a three-channel BGR buffer.
func LoadColor(path string) (*pixbuf.RGB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decoding %s: %w", path, err)
	}
	return rgbFromImage(img), nil
}

// LoadAny decodes any image format imaging/golang.org/x/image understands
// (used by the batch tool, which accepts arbitrary source images rather than
// the fixed BMP contract of the single-purpose CLI tools) and returns it
// according to mode.
func LoadAny(path string, mode Mode) (gray *pixbuf.Gray, rgb *pixbuf.RGB, err error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("imageio: decoding %s: %w", path, err)
	}
	if mode == ModeGray {
		return grayFromImage(img), nil, nil
	}
	return nil, rgbFromImage(img), nil
}

func grayFromImage(img image.Image) *pixbuf.Gray {
	b := img.Bounds()
	out := pixbuf.NewGray(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out.Set(x-b.Min.X, y-b.Min.Y, metrics.Luma(byte(bl>>8), byte(g>>8), byte(r>>8)))
		}
	}
	return out
}

func rgbFromImage(img image.Image) *pixbuf.RGB {
	b := img.Bounds()
	out := pixbuf.NewRGB(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out.SetBGR(x-b.Min.X, y-b.Min.Y, byte(bl>>8), byte(g>>8), byte(r>>8))
		}
	}
	return out
}

// SaveGrayBMP writes a single-channel buffer as an 8-bit grayscale BMP.
func SaveGrayBMP(path string, img *pixbuf.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pix)
	return bmp.Encode(f, out)
}

// SaveColorBMP writes a three-channel BGR buffer as a 24-bit color BMP.
func SaveColorBMP(path string, img *pixbuf.RGB) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			b, g, r := img.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return bmp.Encode(f, out)
}
