// Package thumbhash computes a compact DCT-based preview hash for a
// processed image, recorded in a batch run's manifest entry so a viewer can
// render a blurred placeholder without decoding the full output file. The
// algorithm follows Evan Wallace's ThumbHash (area-downsample to a small
// working resolution, then pack low-frequency DCT coefficients into a short
// byte string), adapted to read directly from this module's pixbuf buffers
// instead of image.Image: every source here is already fully opaque, so the
// alpha-channel header bits the original format reserves are always zero.
package thumbhash

import (
	"math"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

const maxThumbDim = 100

// Encode computes the preview hash of an opaque BGR image.
func Encode(img *pixbuf.RGB) []byte {
	if img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	w, h := thumbDims(img.Width, img.Height)
	rgb := downsampleRGB(img, w, h)
	return assembleHash(w, h, rgb)
}

// EncodeGray computes the preview hash of a single-channel image, treating
// it as an R=G=B color image (the luma channel only).
func EncodeGray(img *pixbuf.Gray) []byte {
	if img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	w, h := thumbDims(img.Width, img.Height)
	rgb := downsampleGray(img, w, h)
	return assembleHash(w, h, rgb)
}

func thumbDims(srcW, srcH int) (int, int) {
	if srcW <= maxThumbDim && srcH <= maxThumbDim {
		return srcW, srcH
	}
	if srcW >= srcH {
		return maxThumbDim, max1(srcH * maxThumbDim / srcW)
	}
	return max1(srcW * maxThumbDim / srcH), maxThumbDim
}

// downsampleRGB area-averages img down to w-by-h, returning interleaved
// [r,g,b] float32 triples in [0,1].
func downsampleRGB(img *pixbuf.RGB, w, h int) []float32 {
	out := make([]float32, w*h*3)
	for dy := 0; dy < h; dy++ {
		sy0, sy1 := srcSpan(dy, h, img.Height)
		for dx := 0; dx < w; dx++ {
			sx0, sx1 := srcSpan(dx, w, img.Width)
			var rS, gS, bS uint32
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					b, g, r := img.At(sx, sy)
					rS += uint32(r)
					gS += uint32(g)
					bS += uint32(b)
				}
			}
			inv := float32(1) / (float32((sy1-sy0)*(sx1-sx0)) * 255)
			di := (dy*w + dx) * 3
			out[di] = float32(rS) * inv
			out[di+1] = float32(gS) * inv
			out[di+2] = float32(bS) * inv
		}
	}
	return out
}

func downsampleGray(img *pixbuf.Gray, w, h int) []float32 {
	out := make([]float32, w*h*3)
	for dy := 0; dy < h; dy++ {
		sy0, sy1 := srcSpan(dy, h, img.Height)
		for dx := 0; dx < w; dx++ {
			sx0, sx1 := srcSpan(dx, w, img.Width)
			var vS uint32
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					vS += uint32(img.At(sx, sy))
				}
			}
			v := float32(vS) / (float32((sy1-sy0)*(sx1-sx0)) * 255)
			di := (dy*w + dx) * 3
			out[di] = v
			out[di+1] = v
			out[di+2] = v
		}
	}
	return out
}

func srcSpan(d, dstSize, srcSize int) (int, int) {
	s0 := d * srcSize / dstSize
	s1 := (d + 1) * srcSize / dstSize
	if s1 <= s0 {
		s1 = s0 + 1
	}
	if s1 > srcSize {
		s1 = srcSize
	}
	return s0, s1
}

// assembleHash runs the DCT encode over an interleaved [r,g,b] buffer
// (stride 3, no alpha channel — every source pixel is opaque) and packs the
// low-frequency coefficients into a ThumbHash-style byte string: a four-byte
// header (L/P/Q DC, L scale, L count, landscape flag), a two-byte header
// (P and Q scales), then the AC coefficients as 4-bit values. The header bit
// positions differ from upstream ThumbHash, so upstream decoders cannot read it.
func assembleHash(w, h int, rgb []float32) []byte {
	count := w * h

	lLimit := 7
	maxWH := imax(w, h)
	lx := max1(roundF(float32(lLimit*w) / float32(maxWH)))
	ly := max1(roundF(float32(lLimit*h) / float32(maxWH)))
	px := max1(roundF(float32(3*w) / float32(maxWH)))
	py := max1(roundF(float32(3*h) / float32(maxWH)))

	// RGB -> LPQ in place (L = luma, P/Q = chroma difference axes).
	lpq := make([]float32, count*3)
	for i := 0; i < count; i++ {
		off := i * 3
		r, g, b := rgb[off], rgb[off+1], rgb[off+2]
		lpq[off] = (r + g + b) / 3
		lpq[off+1] = (r+g)/2 - b
		lpq[off+2] = r - g
	}

	maxNx := imax(lx, px)
	maxNy := imax(ly, py)
	cosX := make([]float32, maxNx*w)
	for cx := 0; cx < maxNx; cx++ {
		s := math.Pi * float64(cx) / float64(w)
		base := cx * w
		for x := 0; x < w; x++ {
			cosX[base+x] = float32(math.Cos(s * (float64(x) + 0.5)))
		}
	}
	cosY := make([]float32, maxNy*h)
	for cy := 0; cy < maxNy; cy++ {
		s := math.Pi * float64(cy) / float64(h)
		base := cy * h
		for y := 0; y < h; y++ {
			cosY[base+y] = float32(math.Cos(s * (float64(y) + 0.5)))
		}
	}

	lN := lx*ly - 1
	pN := px*py - 1
	qN := pN
	lAC := make([]float32, lN)
	pAC := make([]float32, pN)
	qAC := make([]float32, qN)

	lScale, lDC := encodeChan(lpq, 0, 3, w, h, lx, ly, cosX, cosY, lAC)
	pScale, pDC := encodeChan(lpq, 1, 3, w, h, px, py, cosX, cosY, pAC)
	qScale, qDC := encodeChan(lpq, 2, 3, w, h, px, py, cosX, cosY, qAC)

	isLandscape := w > h
	header := uint32(math.Round(float64(lDC)*63)) |
		uint32(math.Round(float64(pDC)*31+31))<<6 |
		uint32(math.Round(float64(qDC)*31+31))<<12 |
		uint32(math.Round(float64(lScale)*31))<<18
	if isLandscape {
		header |= uint32(ly) << 24
	} else {
		header |= uint32(lx) << 24
	}
	header |= boolU32(isLandscape) << 28

	header2 := uint16(math.Round(float64(pScale)*63)) |
		uint16(math.Round(float64(qScale)*63))<<6

	totalAC := lN + pN + qN
	hash := make([]byte, 6+(totalAC+1)/2)
	hash[0] = byte(header)
	hash[1] = byte(header >> 8)
	hash[2] = byte(header >> 16)
	hash[3] = byte(header >> 24)
	hash[4] = byte(header2)
	hash[5] = byte(header2 >> 8)

	nib := 0
	packAC := func(ac []float32) {
		for _, c := range ac {
			v := clamp01f(c/2 + 0.5)
			b := byte(math.Round(float64(v) * 15))
			pos := 6 + nib/2
			if nib%2 == 0 {
				hash[pos] = b
			} else {
				hash[pos] |= b << 4
			}
			nib++
		}
	}
	packAC(lAC)
	packAC(pAC)
	packAC(qAC)

	return hash
}

// encodeChan computes DCT coefficients for one LPQ channel: dst holds the
// AC coefficients normalized to [-1,1] and the return values are the scale
// used to normalize them and the DC coefficient.
func encodeChan(data []float32, chanOff, stride, w, h, nx, ny int, cosX, cosY []float32, dst []float32) (float32, float32) {
	var dc, acMax float32
	idx := 0
	wh := float32(w * h)

	for cy := 0; cy < ny; cy++ {
		cyBase := cy * h
		for cx := 0; cx < nx; cx++ {
			var f float32
			cxBase := cx * w
			for y := 0; y < h; y++ {
				fy := cosY[cyBase+y]
				rowOff := y * w * stride
				for x := 0; x < w; x++ {
					f += data[rowOff+x*stride+chanOff] * cosX[cxBase+x] * fy
				}
			}
			f /= wh

			if cx == 0 && cy == 0 {
				dc = f
				continue
			}
			dst[idx] = f
			af := f
			if af < 0 {
				af = -af
			}
			if af > acMax {
				acMax = af
			}
			idx++
		}
	}

	if acMax > 0 {
		inv := float32(1) / acMax
		for i := range dst[:idx] {
			dst[i] *= inv
		}
	}
	return acMax, dc
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundF(v float32) int {
	return int(math.Round(float64(v)))
}
