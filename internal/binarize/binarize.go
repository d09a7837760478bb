// Package binarize converts an 8-bit grayscale image to a 1-bit image using
// multi-resolution min/max/mean pyramids and a locally adaptive threshold: a
// coarse average threshold seeds the map at the pyramid's smallest level,
// and at every finer level a map pixel is overwritten with the mode's
// threshold formula wherever that level's local max-min spread clears a
// noise floor, otherwise the upsampled coarser value is kept.
// ModeBySeparatedNoiseLevels uses a per-intensity-bin noise floor derived
// from a one-time summed-area-table pass over the full image instead of a
// constant.
package binarize

import (
	"fmt"
	"math"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Mode selects the formula used to turn a pixel's local min/max/avg pyramid
// values (and, for ModeBySeparatedNoiseLevels, its bin's noise floor) into a
// threshold.
type Mode int

const (
	ModeAvg Mode = iota
	ModeCenter
	ModeCenterMinWeighted
	ModeAvgCenterWeighted
	ModeBySeparatedNoiseLevels
)

// DefaultMode matches the reference implementation's default.
const DefaultMode = ModeCenter

// DefaultNoiseLevel and DefaultSigmaMultiplier are the reference constants
// controlling the noise gate: a pyramid level's local max-min spread has to
// clear this floor before the map is overwritten at that level, else the
// coarser upsampled value is kept. ModeBySeparatedNoiseLevels replaces the
// constant floor with a per-intensity-bin one.
const (
	DefaultNoiseLevel      = 40
	DefaultSigmaMultiplier = 3.0
)

const (
	binsNumber   = 16
	valuesPerBin = 256 / binsNumber
	noiseRadius  = 16 // 33x33 window
)

func (m Mode) String() string {
	switch m {
	case ModeAvg:
		return "avg"
	case ModeCenter:
		return "center"
	case ModeCenterMinWeighted:
		return "center-min-weighted"
	case ModeAvgCenterWeighted:
		return "avg-center-weighted"
	case ModeBySeparatedNoiseLevels:
		return "by-separated-noise-levels"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps the CLI-facing mode names (in the kebab-case form String
// returns or in camelCase, e.g. "centerMinWeighted", and their enum ordinals
// as strings) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "avg", "0":
		return ModeAvg, nil
	case "center", "1":
		return ModeCenter, nil
	case "center-min-weighted", "centerMinWeighted", "2":
		return ModeCenterMinWeighted, nil
	case "avg-center-weighted", "avgCenterWeighted", "3":
		return ModeAvgCenterWeighted, nil
	case "by-separated-noise-levels", "bySeparatedNoiseLevels", "4":
		return ModeBySeparatedNoiseLevels, nil
	default:
		return 0, fmt.Errorf("binarize: unknown mode %q", s)
	}
}

// Options bundles the tunables of the binarization run beyond the mode
// itself.
type Options struct {
	Mode            Mode
	NoiseLevel      int
	SigmaMultiplier float64
}

// DefaultOptions returns the reference constants.
func DefaultOptions() Options {
	return Options{Mode: DefaultMode, NoiseLevel: DefaultNoiseLevel, SigmaMultiplier: DefaultSigmaMultiplier}
}

// Binarize converts src to a 1-bit image of the same dimensions. A pixel is
// 0 when its intensity falls below the locally adapted threshold at that
// position and 1 otherwise. An unknown opts.Mode is an error.
func Binarize(src *pixbuf.Gray, opts Options) (*pixbuf.Bit, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("binarize: invalid image dimensions %dx%d", src.Width, src.Height)
	}
	if opts.Mode < ModeAvg || opts.Mode > ModeBySeparatedNoiseLevels {
		return nil, fmt.Errorf("binarize: unknown mode %s", opts.Mode)
	}
	b := newBinarizer(src, opts)
	return b.run(), nil
}

type grid struct {
	w, h int
	v    []int
}

func newGrid(w, h int) grid       { return grid{w: w, h: h, v: make([]int, w*h)} }
func (g grid) at(x, y int) int    { return g.v[y*g.w+x] }
func (g grid) set(x, y, val int)  { g.v[y*g.w+x] = val }
func (g grid) clone() grid {
	out := newGrid(g.w, g.h)
	copy(out.v, g.v)
	return out
}

type binarizer struct {
	src    *pixbuf.Gray
	opts   Options
	depth  int
	extW   int
	extH   int
	extend grid // padded source, level 0 of every pyramid

	minPyr []grid
	maxPyr []grid
	avgPyr []grid

	// binNoise holds, for ModeBySeparatedNoiseLevels only, the typical
	// window noise level per intensity bin, computed once over the full
	// extended image.
	binNoise []float64
}

func newBinarizer(src *pixbuf.Gray, opts Options) *binarizer {
	depth := getMaxSqueezeDegree(src.Width, src.Height)
	extW := getDivisibleSideSize(src.Width, depth)
	extH := getDivisibleSideSize(src.Height, depth)

	b := &binarizer{src: src, opts: opts, depth: depth, extW: extW, extH: extH}
	b.extend = newGrid(extW, extH)
	for y := 0; y < extH; y++ {
		sy := clampInt(y, 0, src.Height-1)
		for x := 0; x < extW; x++ {
			sx := clampInt(x, 0, src.Width-1)
			b.extend.set(x, y, int(src.At(sx, sy)))
		}
	}
	b.preparePyramids()
	if opts.Mode == ModeBySeparatedNoiseLevels {
		b.binNoise = b.prepareBinNoiseLevels()
	}
	return b
}

// getMaxSqueezeDegree derives the pyramid depth from the image's shorter
// side: depth = floor(log2(min(w,h))) - 1, found by doubling from 2 for as
// long as the value still fits in the side length (never less than 1).
func getMaxSqueezeDegree(width, height int) int {
	side := width
	if height < side {
		side = height
	}
	deg := 0
	for val := 2; val <= side; val <<= 1 {
		deg++
	}
	depth := deg - 1
	if depth < 1 {
		depth = 1
	}
	return depth
}

// getDivisibleSideSize rounds n up to the nearest multiple of 2^depth.
func getDivisibleSideSize(n, depth int) int {
	unit := 1 << depth
	if n%unit == 0 {
		return n
	}
	return (n/unit + 1) * unit
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b *binarizer) preparePyramids() {
	b.minPyr = make([]grid, b.depth+1)
	b.maxPyr = make([]grid, b.depth+1)
	b.avgPyr = make([]grid, b.depth+1)
	b.minPyr[0], b.maxPyr[0], b.avgPyr[0] = b.extend, b.extend, b.extend

	for lvl := 1; lvl <= b.depth; lvl++ {
		pw, ph := b.extW>>(lvl-1), b.extH>>(lvl-1)
		w, h := pw/2, ph/2
		minG, maxG, avgG := newGrid(w, h), newGrid(w, h), newGrid(w, h)
		pm, px, pa := b.minPyr[lvl-1], b.maxPyr[lvl-1], b.avgPyr[lvl-1]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				x0, y0 := 2*x, 2*y
				minG.set(x, y, min4(pm.at(x0, y0), pm.at(x0+1, y0), pm.at(x0, y0+1), pm.at(x0+1, y0+1)))
				maxG.set(x, y, max4(px.at(x0, y0), px.at(x0+1, y0), px.at(x0, y0+1), px.at(x0+1, y0+1)))
				sum := pa.at(x0, y0) + pa.at(x0+1, y0) + pa.at(x0, y0+1) + pa.at(x0+1, y0+1)
				avgG.set(x, y, (sum+2)/4)
			}
		}
		b.minPyr[lvl], b.maxPyr[lvl], b.avgPyr[lvl] = minG, maxG, avgG
	}
}

func min4(a, b, c, d int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}

func max4(a, b, c, d int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}

func (b *binarizer) run() *pixbuf.Bit {
	fullMap := b.buildThresholdMap()

	out := pixbuf.NewBit(b.src.Width, b.src.Height)
	for y := 0; y < b.src.Height; y++ {
		for x := 0; x < b.src.Width; x++ {
			v := byte(0)
			if b.extend.at(x, y) >= fullMap.at(x, y) {
				v = 1
			}
			out.Set(x, y, v)
		}
	}
	return out
}

// buildThresholdMap seeds the map with the coarsest level's average and
// walks down to full resolution, at every finer level overwriting the map
// wherever that level's noise gate is cleared and otherwise keeping the
// value upsampled from the level above.
func (b *binarizer) buildThresholdMap() grid {
	fullMap := b.avgPyr[b.depth].clone()

	for lvl := b.depth; lvl >= 1; lvl-- {
		if lvl != b.depth {
			b.overwriteThresholdMap(fullMap, lvl)
		}
		outW, outH := b.extW>>(lvl-1), b.extH>>(lvl-1)
		fullMap = upsampleThresholdMap(fullMap, outW, outH)
	}
	return fullMap
}

// overwriteThresholdMap replaces m's values in place, at the resolution of
// pyramid level lvl, wherever that level's noise gate is cleared.
func (b *binarizer) overwriteThresholdMap(m grid, lvl int) {
	minG, maxG, avgG := b.minPyr[lvl], b.maxPyr[lvl], b.avgPyr[lvl]
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			mn, mx, av := minG.at(x, y), maxG.at(x, y), avgG.at(x, y)
			if b.opts.Mode == ModeBySeparatedNoiseLevels {
				bin := clampInt(av/valuesPerBin, 0, binsNumber-1)
				gate := int(b.opts.SigmaMultiplier * b.binNoise[bin])
				if mx-mn > gate {
					m.set(x, y, (mn+mx)/2)
				}
				continue
			}
			if mx-mn > b.opts.NoiseLevel {
				m.set(x, y, thresholdFormula(b.opts.Mode, mn, mx, av))
			}
		}
	}
}

func thresholdFormula(mode Mode, mn, mx, av int) int {
	switch mode {
	case ModeAvg:
		return av
	case ModeCenter:
		return (mn + mx + 1) / 2
	case ModeCenterMinWeighted:
		med := (mn + mx) / 2
		return (mn + 2*med + 1) / 3
	case ModeAvgCenterWeighted:
		med := (mn + mx) / 2
		return (med + av + 1) / 2
	default:
		return (mn + mx + 1) / 2
	}
}

// upsampleThresholdMap doubles a coarse threshold grid to outW x outH using
// a 9/3/3/1 weighted blend of the coarse cell and its three border-clamped
// neighbors in the direction of the finer sub-pixel position.
func upsampleThresholdMap(coarse grid, outW, outH int) grid {
	out := newGrid(outW, outH)
	cw, ch := coarse.w, coarse.h
	for oy := 0; oy < outH; oy++ {
		cy := oy / 2
		ny := cy - 1
		if oy%2 == 1 {
			ny = cy + 1
		}
		ny = clampInt(ny, 0, ch-1)
		for ox := 0; ox < outW; ox++ {
			cx := ox / 2
			nx := cx - 1
			if ox%2 == 1 {
				nx = cx + 1
			}
			nx = clampInt(nx, 0, cw-1)

			center := coarse.at(cx, cy)
			horiz := coarse.at(nx, cy)
			vert := coarse.at(cx, ny)
			diag := coarse.at(nx, ny)
			out.set(ox, oy, (9*center+3*horiz+3*vert+diag+8)/16)
		}
	}
	return out
}

// prepareBinNoiseLevels computes, once over the full extended image, a
// typical noise level per intensity bin: for every pixel's (2*noiseRadius+1)
// window the local mean and variance are computed via summed-area tables,
// the variance is added into the bin matching the window's mean (flat,
// zero-variance windows are skipped), and each bin's level is the square
// root of its mean variance.
func (b *binarizer) prepareBinNoiseLevels() []float64 {
	w, h := b.extW, b.extH
	stride := w + 1
	sat := make([]int64, stride*(h+1))
	satSq := make([]int64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum, rowSumSq int64
		for x := 0; x < w; x++ {
			v := int64(b.extend.at(x, y))
			rowSum += v
			rowSumSq += v * v
			sat[(y+1)*stride+(x+1)] = sat[y*stride+(x+1)] + rowSum
			satSq[(y+1)*stride+(x+1)] = satSq[y*stride+(x+1)] + rowSumSq
		}
	}

	query := func(table []int64, x0, y0, x1, y1 int) int64 {
		x0, y0 = clampInt(x0, 0, w), clampInt(y0, 0, h)
		x1, y1 = clampInt(x1, 0, w), clampInt(y1, 0, h)
		return table[y1*stride+x1] - table[y0*stride+x1] - table[y1*stride+x0] + table[y0*stride+x0]
	}

	varSum := make([]float64, binsNumber)
	countPerBin := make([]int64, binsNumber)
	for y := 0; y < h; y++ {
		y0, y1 := y-noiseRadius, y+noiseRadius+1
		for x := 0; x < w; x++ {
			x0, x1 := x-noiseRadius, x+noiseRadius+1
			count := int64(clampInt(x1, 0, w)-clampInt(x0, 0, w)) * int64(clampInt(y1, 0, h)-clampInt(y0, 0, h))
			if count <= 0 {
				continue
			}
			s := query(sat, x0, y0, x1, y1)
			sq := query(satSq, x0, y0, x1, y1)
			mean := float64(s) / float64(count)
			variance := float64(sq)/float64(count) - mean*mean
			if variance <= 0 {
				continue
			}
			bin := clampInt(int(mean)/valuesPerBin, 0, binsNumber-1)
			varSum[bin] += variance
			countPerBin[bin]++
		}
	}
	for i := range varSum {
		if countPerBin[i] > 0 {
			varSum[i] = math.Round(math.Sqrt(varSum[i] / float64(countPerBin[i])))
		}
	}
	return varSum
}
