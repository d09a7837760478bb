// Package metrics computes the image-quality figures reported by every CLI
// tool in this module: luma conversion, mean squared error, and peak
// signal-to-noise ratio.
package metrics

import (
	"fmt"
	"math"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Luma converts a BGR pixel to its luma (Y) value using the fixed-point
// coefficients (9798, 19235, 3735) over 2^15, rounded by the >>15 truncation.
func Luma(b, g, r byte) byte {
	y := (9798*int(r) + 19235*int(g) + 3735*int(b)) >> 15
	return pixbuf.ClampByte(y)
}

// ToGray converts a full BGR image to its luma-channel grayscale equivalent.
func ToGray(src *pixbuf.RGB) *pixbuf.Gray {
	out := pixbuf.NewGray(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			b, g, r := src.At(x, y)
			out.Set(x, y, Luma(b, g, r))
		}
	}
	return out
}

// MSE returns the mean squared error between two equally-sized grayscale
// images.
func MSE(a, b *pixbuf.Gray) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("metrics: dimension mismatch %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	var sum float64
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sum += d * d
	}
	return sum / float64(len(a.Pix)), nil
}

// MSECutted computes MSE over the interior of the image only, excluding the
// two-pixel ring along every edge. This mirrors the boundary produced by
// replicated-edge padding (internal/vng's gradient stencils cannot recover
// information that padding fabricated), so quality figures reported for
// demosaiced output are not skewed by the necessarily-approximate border.
func MSECutted(a, b *pixbuf.Gray) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("metrics: dimension mismatch %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	const margin = 2
	if a.Width <= 2*margin || a.Height <= 2*margin {
		return MSE(a, b)
	}
	var sum float64
	count := 0
	for y := margin; y < a.Height-margin; y++ {
		for x := margin; x < a.Width-margin; x++ {
			d := float64(a.At(x, y)) - float64(b.At(x, y))
			sum += d * d
			count++
		}
	}
	return sum / float64(count), nil
}

// PSNR converts a mean squared error figure to peak signal-to-noise ratio in
// decibels, against the maximum possible 8-bit channel value. A zero MSE
// (identical images) reports +Inf, matching the standard convention.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
