// Package vng recovers a three-channel BGR image from a single-channel Bayer
// CFA buffer using Variable Number of Gradients interpolation: eight
// directional gradients are scored around each pixel, a threshold selects the
// subset judged "smooth enough" to trust, and the surviving directions are
// averaged to fill in the two missing color channels.
//
// The CFA convention in use is the standard Bayer mosaic: pixel (x, y) holds
// the Green channel when (x+y) is odd, and otherwise alternates Red/Blue by
// row parity (Red when y is even, Blue when y is odd). The two-pixel border
// needed by the gradient stencils is supplied by reflecting the two CFA rows
// and columns adjacent to each edge back across it, which happens to also
// preserve CFA color parity across the seam since reflection by two steps
// maps odd indices to odd indices and even to even.
package vng

import (
	"fmt"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Channel indices into a 3-element per-pixel accumulator, matching the BGR
// storage order of pixbuf.RGB.
const (
	chBlue = iota
	chGreen
	chRed
)

// Long/short diagonal gradient cache slots: one per CFA row pair spanned.
const (
	lgoTop = iota
	lgoMid
	lgoBot
	lgoCount
)

const (
	sgoTop = iota
	sgoMidTop
	sgoMidBot
	sgoBot
	sgoCount
)

// Rolling window of five CFA rows centered on the row being recovered.
const (
	loBeforePrev = iota
	loPrev
	loCurr
	loNext
	loAfterNext
	loCount
)

// The eight candidate interpolation directions.
const (
	bgdNorth = iota
	bgdSouth
	bgdWest
	bgdEast
	bgdNorthWest
	bgdNorthEast
	bgdSouthWest
	bgdSouthEast
	bgdCount
)

// Recover reconstructs a full BGR image from a single-channel Bayer CFA
// buffer. The output has the same dimensions as cfa.
func Recover(cfa *pixbuf.Gray) (*pixbuf.RGB, error) {
	if cfa.Width <= 0 || cfa.Height <= 0 {
		return nil, errInvalidSize{cfa.Width, cfa.Height}
	}
	e := newEngine(cfa)
	e.run()
	return e.out, nil
}

type errInvalidSize struct{ w, h int }

func (e errInvalidSize) Error() string {
	return fmt.Sprintf("vng: invalid CFA buffer dimensions %dx%d", e.w, e.h)
}

type engine struct {
	width, height       int // original CFA dimensions
	expWidth, expHeight int // padded dimensions (width+4, height+4)
	expanded            []byte
	out                 *pixbuf.RGB

	cfaLines [loCount][]byte

	vertGrad  [lgoCount][]int
	horizGrad [lgoCount][]int

	leftLongDiag   [lgoCount][]int
	rightLongDiag  [lgoCount][]int
	leftShortDiag  [sgoCount][]int
	rightShortDiag [sgoCount][]int

	dirGrad [bgdCount]int

	curRow int // expanded-buffer row index currently being recovered
}

func newEngine(cfa *pixbuf.Gray) *engine {
	e := &engine{
		width:     cfa.Width,
		height:    cfa.Height,
		expWidth:  cfa.Width + 4,
		expHeight: cfa.Height + 4,
		out:       pixbuf.NewRGB(cfa.Width, cfa.Height),
	}
	e.expanded = make([]byte, e.expWidth*e.expHeight)
	for ey := 0; ey < e.expHeight; ey++ {
		ry := reflectIndex(ey-2, e.height)
		srcRow := cfa.Row(ry)
		dstRow := e.expanded[ey*e.expWidth : (ey+1)*e.expWidth]
		for ex := 0; ex < e.expWidth; ex++ {
			rx := reflectIndex(ex-2, e.width)
			dstRow[ex] = srcRow[rx]
		}
	}
	for i := 0; i < lgoCount; i++ {
		e.vertGrad[i] = make([]int, e.expWidth)
		e.horizGrad[i] = make([]int, e.expWidth)
		e.leftLongDiag[i] = make([]int, e.expWidth)
		e.rightLongDiag[i] = make([]int, e.expWidth)
	}
	for i := 0; i < sgoCount; i++ {
		e.leftShortDiag[i] = make([]int, e.expWidth)
		e.rightShortDiag[i] = make([]int, e.expWidth)
	}
	return e
}

// reflectIndex maps an arbitrary (possibly out-of-range) index k into [0, n)
// using reflect-101 mirroring (the edge value itself is never duplicated).
// For n == 1 every index collapses to 0.
func reflectIndex(k, n int) int {
	if n <= 1 {
		return 0
	}
	if k < 0 {
		k = -k
	}
	period := 2 * (n - 1)
	k = k % period
	if k >= n {
		k = period - k
	}
	return k
}

func (e *engine) expRow(i int) []byte {
	return e.expanded[i*e.expWidth : (i+1)*e.expWidth]
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func (e *engine) calcVerticalGradient(top, bot []byte, slot int) {
	dst := e.vertGrad[slot]
	for col := 0; col < e.expWidth; col++ {
		dst[col] = abs(int(bot[col]) - int(top[col]))
	}
}

func (e *engine) calcHorizontalGradient(line []byte, slot int) {
	dst := e.horizGrad[slot]
	for col := 2; col < e.expWidth; col++ {
		dst[col] = abs(int(line[col]) - int(line[col-2]))
	}
}

func (e *engine) calcDiagonalGradient(top, bot []byte, isShort, isLeft bool, idx int) {
	w := e.expWidth
	switch {
	case !isShort && isLeft:
		dst := e.leftLongDiag[idx]
		for col := 2; col < w; col++ {
			dst[col] = abs(int(bot[col]) - int(top[col-2]))
		}
		dst[0] = abs(int(bot[0]) - int(top[0]))
		dst[1] = abs(int(bot[1]) - int(top[1]))
	case !isShort && !isLeft:
		dst := e.rightLongDiag[idx]
		for col := 0; col < w-2; col++ {
			dst[col] = abs(int(bot[col]) - int(top[col+2]))
		}
		dst[w-1] = abs(int(bot[w-1]) - int(top[w-1]))
		dst[w-2] = abs(int(bot[w-2]) - int(top[w-2]))
	case isShort && isLeft:
		dst := e.leftShortDiag[idx]
		for col := 1; col < w; col++ {
			dst[col] = abs(int(bot[col]) - int(top[col-1]))
		}
		dst[0] = abs(int(bot[0]) - int(top[1]))
	default: // isShort && !isLeft
		dst := e.rightShortDiag[idx]
		for col := 0; col < w-1; col++ {
			dst[col] = abs(int(bot[col]) - int(top[col+1]))
		}
		dst[w-1] = abs(int(bot[w-1]) - int(top[w-2]))
	}
}

// updateGradients computes the gradient caches that depend on the CFA rows
// newly entering the window (loCurr/loNext/loAfterNext) for this iteration.
func (e *engine) updateGradients() {
	curr, next, afterNext := e.cfaLines[loCurr], e.cfaLines[loNext], e.cfaLines[loAfterNext]

	e.calcVerticalGradient(curr, afterNext, lgoBot)
	e.calcHorizontalGradient(next, lgoBot)

	e.calcDiagonalGradient(curr, afterNext, false, true, lgoBot)
	e.calcDiagonalGradient(curr, afterNext, false, false, lgoBot)
	e.calcDiagonalGradient(next, afterNext, true, true, sgoBot)
	e.calcDiagonalGradient(next, afterNext, true, false, sgoBot)
}

// moveCache rotates every rolling cache slot down by one (slot i takes on
// what slot i+1 held), so the next iteration's "Bot" slot is free for
// updateGradients to fill in. The CFA row window itself is reassigned by run.
func (e *engine) moveCache() {
	for i := 0; i+1 < lgoCount; i++ {
		e.vertGrad[i], e.vertGrad[i+1] = e.vertGrad[i+1], e.vertGrad[i]
		e.horizGrad[i], e.horizGrad[i+1] = e.horizGrad[i+1], e.horizGrad[i]
		e.leftLongDiag[i], e.leftLongDiag[i+1] = e.leftLongDiag[i+1], e.leftLongDiag[i]
		e.rightLongDiag[i], e.rightLongDiag[i+1] = e.rightLongDiag[i+1], e.rightLongDiag[i]
	}
	for i := 0; i+1 < sgoCount; i++ {
		e.leftShortDiag[i], e.leftShortDiag[i+1] = e.leftShortDiag[i+1], e.leftShortDiag[i]
		e.rightShortDiag[i], e.rightShortDiag[i+1] = e.rightShortDiag[i+1], e.rightShortDiag[i]
	}
}

func (e *engine) calcNonDiagonalDirectionGradients(col int) {
	v, h := e.vertGrad, e.horizGrad
	e.dirGrad[bgdNorth] = v[lgoTop][col] + v[lgoMid][col] +
		(v[lgoTop][col-1]+v[lgoMid][col-1]+v[lgoTop][col+1]+v[lgoMid][col+1])/2
	e.dirGrad[bgdSouth] = v[lgoBot][col] + v[lgoMid][col] +
		(v[lgoBot][col-1]+v[lgoMid][col-1]+v[lgoBot][col+1]+v[lgoMid][col+1])/2
	e.dirGrad[bgdWest] = h[lgoMid][col] + h[lgoMid][col+1] +
		(h[lgoTop][col]+h[lgoTop][col+1]+h[lgoBot][col]+h[lgoBot][col+1])/2
	e.dirGrad[bgdEast] = h[lgoMid][col+1] + h[lgoMid][col+2] +
		(h[lgoTop][col+1]+h[lgoTop][col+2]+h[lgoBot][col+1]+h[lgoBot][col+2])/2
}

func (e *engine) calcDirectionGradientsForGreen(col int) {
	e.calcNonDiagonalDirectionGradients(col)
	ll, rl := e.leftLongDiag, e.rightLongDiag
	e.dirGrad[bgdNorthWest] = ll[lgoTop][col] + ll[lgoTop][col+1] + ll[lgoMid][col+1] + ll[lgoMid][col]
	e.dirGrad[bgdNorthEast] = rl[lgoMid][col-1] + rl[lgoTop][col] + rl[lgoTop][col-1] + rl[lgoMid][col]
	e.dirGrad[bgdSouthWest] = rl[lgoMid][col-1] + rl[lgoBot][col-2] + rl[lgoBot][col-1] + rl[lgoMid][col-2]
	e.dirGrad[bgdSouthEast] = ll[lgoMid][col+1] + ll[lgoMid][col+2] + ll[lgoBot][col+1] + ll[lgoBot][col+2]
}

func (e *engine) calcDirectionGradientsForNotGreen(col int) {
	e.calcNonDiagonalDirectionGradients(col)
	ll, rl := e.leftLongDiag, e.rightLongDiag
	ls, rs := e.leftShortDiag, e.rightShortDiag
	e.dirGrad[bgdNorthWest] = ll[lgoMid][col+1] + ll[lgoTop][col] +
		(ls[sgoTop][col]+ls[sgoMidTop][col-1]+ls[sgoMidTop][col+1]+ls[sgoMidBot][col])/2
	e.dirGrad[bgdNorthEast] = rl[lgoMid][col-1] + rl[lgoTop][col] +
		(rs[sgoMidTop][col-1]+rs[sgoMidTop][col+1]+rs[sgoMidBot][col]+rs[sgoTop][col])/2
	e.dirGrad[bgdSouthWest] = rl[lgoMid][col-1] + rl[lgoBot][col+2] +
		(rs[sgoMidTop][col-1]+rs[sgoMidBot][col-2]+rs[sgoMidBot][col]+rs[sgoBot][col-1])/2
	e.dirGrad[bgdSouthEast] = ll[lgoMid][col+1] + ll[lgoBot][col+2] +
		(ls[sgoMidTop][col+1]+ls[sgoMidBot][col]+ls[sgoMidBot][col+2]+ls[sgoBot][col+1])/2
}

// getGradientThreshold scores the eight direction gradients and returns the
// cutoff used to decide which directions are trusted for this pixel.
//
// The one retrieved reference implementation leaves this path disabled,
// unconditionally returning the maximum possible threshold so every
// direction is always accepted. This port instead implements the formula the
// specification calls for (min + max/2), which is the behavior actually
// intended by the algorithm; the disabled variant is treated as a defect in
// the one sample found, not as the target behavior.
func (e *engine) getGradientThreshold() int {
	minG, maxG := e.dirGrad[0], e.dirGrad[0]
	for _, g := range e.dirGrad {
		if g < minG {
			minG = g
		}
		if g > maxG {
			maxG = g
		}
	}
	return minG + maxG/2
}

func (e *engine) interpolateColorsForGreen(col, threshold, horizOther, vertOther int) {
	cfa := e.cfaLines
	n := 0
	var sum [3]int
	d := e.dirGrad

	if d[bgdNorthWest] <= threshold {
		n++
		sum[chGreen] += int(cfa[loPrev][col-1])
		sum[horizOther] += (int(cfa[loPrev][col-2]) + int(cfa[loPrev][col])) / 2
		sum[vertOther] += (int(cfa[loCurr][col-1]) + int(cfa[loBeforePrev][col-1])) / 2
	}
	if d[bgdNorthEast] <= threshold {
		n++
		sum[chGreen] += int(cfa[loPrev][col+1])
		sum[horizOther] += (int(cfa[loPrev][col+2]) + int(cfa[loPrev][col])) / 2
		sum[vertOther] += (int(cfa[loCurr][col+1]) + int(cfa[loBeforePrev][col+1])) / 2
	}
	if d[bgdSouthWest] <= threshold {
		n++
		sum[chGreen] += int(cfa[loNext][col-1])
		sum[horizOther] += (int(cfa[loNext][col-2]) + int(cfa[loNext][col])) / 2
		sum[vertOther] += (int(cfa[loCurr][col-1]) + int(cfa[loAfterNext][col-1])) / 2
	}
	if d[bgdSouthEast] <= threshold {
		n++
		sum[chGreen] += int(cfa[loNext][col+1])
		sum[horizOther] += (int(cfa[loNext][col+2]) + int(cfa[loNext][col])) / 2
		sum[vertOther] += (int(cfa[loCurr][col+1]) + int(cfa[loAfterNext][col+1])) / 2
	}
	if d[bgdNorth] <= threshold {
		n++
		sum[vertOther] += int(cfa[loPrev][col])
		sum[horizOther] += (int(cfa[loCurr][col-1]) + int(cfa[loCurr][col+1]) + int(cfa[loBeforePrev][col-1]) + int(cfa[loBeforePrev][col+1])) / 4
		sum[chGreen] += (int(cfa[loCurr][col]) + int(cfa[loBeforePrev][col])) / 2
	}
	if d[bgdSouth] <= threshold {
		n++
		// asymmetric with bgdNorth's cfa[loPrev][col]; present in the source
		// and preserved here for reproducibility.
		sum[vertOther] += int(cfa[loNext][col-1])
		sum[horizOther] += (int(cfa[loCurr][col-1]) + int(cfa[loCurr][col+1]) + int(cfa[loAfterNext][col-1]) + int(cfa[loAfterNext][col+1])) / 4
		sum[chGreen] += (int(cfa[loCurr][col]) + int(cfa[loAfterNext][col])) / 2
	}
	if d[bgdWest] <= threshold {
		n++
		sum[horizOther] += int(cfa[loCurr][col-1])
		sum[vertOther] += (int(cfa[loPrev][col-1]) + int(cfa[loNext][col-1])) / 2
		sum[chGreen] += (int(cfa[loCurr][col]) + int(cfa[loCurr][col-2])) / 2
	}
	if d[bgdEast] <= threshold {
		n++
		sum[horizOther] += int(cfa[loCurr][col+1])
		sum[vertOther] += (int(cfa[loPrev][col+1]) + int(cfa[loNext][col+1])) / 2
		sum[chGreen] += (int(cfa[loCurr][col]) + int(cfa[loCurr][col+2])) / 2
	}

	e.writeGreenCentered(col, n, sum, horizOther, vertOther)
}

// writeGreenCentered stores the three recovered channels for a green CFA
// pixel given the direction-vote accumulator.
func (e *engine) writeGreenCentered(col, n int, sum [3]int, horizOther, vertOther int) {
	center := int(e.cfaLines[loCurr][col])
	chans := [3]byte{}
	chans[chGreen] = pixbuf.ClampByte(center)
	chans[horizOther] = pixbuf.ClampByte(center + (sum[horizOther]-sum[chGreen])/n)
	chans[vertOther] = pixbuf.ClampByte(center + (sum[vertOther]-sum[chGreen])/n)
	e.writeOut(col, chans)
}

func (e *engine) interpolateColorsForNotGreen(col, threshold, centralColor, otherColor int) {
	cfa := e.cfaLines
	n := 0
	var sum [3]int
	d := e.dirGrad

	if d[bgdNorthWest] <= threshold {
		n++
		sum[otherColor] += int(cfa[loPrev][col-1])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loBeforePrev][col-2])) / 2
		sum[chGreen] += (int(cfa[loPrev][col-2]) + int(cfa[loPrev][col]) + int(cfa[loCurr][col-1]) + int(cfa[loBeforePrev][col-1])) / 4
	}
	if d[bgdNorthEast] <= threshold {
		n++
		sum[otherColor] += int(cfa[loPrev][col+1])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loBeforePrev][col+2])) / 2
		sum[chGreen] += (int(cfa[loPrev][col+2]) + int(cfa[loPrev][col]) + int(cfa[loCurr][col+1]) + int(cfa[loBeforePrev][col+1])) / 4
	}
	if d[bgdSouthWest] <= threshold {
		n++
		sum[otherColor] += int(cfa[loNext][col-1])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loAfterNext][col-2])) / 2
		sum[chGreen] += (int(cfa[loNext][col-2]) + int(cfa[loNext][col]) + int(cfa[loCurr][col-1]) + int(cfa[loAfterNext][col-1])) / 4
	}
	if d[bgdSouthEast] <= threshold {
		n++
		sum[otherColor] += int(cfa[loNext][col+1])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loAfterNext][col+2])) / 2
		sum[chGreen] += (int(cfa[loNext][col+2]) + int(cfa[loNext][col]) + int(cfa[loCurr][col+1]) + int(cfa[loAfterNext][col+1])) / 4
	}
	if d[bgdNorth] <= threshold {
		n++
		sum[chGreen] += int(cfa[loPrev][col])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loBeforePrev][col])) / 2
		sum[otherColor] += (int(cfa[loPrev][col-1]) + int(cfa[loPrev][col+1])) / 2
	}
	if d[bgdSouth] <= threshold {
		n++
		sum[chGreen] += int(cfa[loNext][col])
		sum[centralColor] += (int(cfa[loCurr][col]) + int(cfa[loAfterNext][col])) / 2
		sum[otherColor] += (int(cfa[loNext][col-1]) + int(cfa[loNext][col+1])) / 2
	}
	if d[bgdWest] <= threshold {
		n++
		sum[chGreen] += int(cfa[loCurr][col-1])
		sum[centralColor] += (int(cfa[loCurr][col-2]) + int(cfa[loCurr][col])) / 2
		sum[otherColor] += (int(cfa[loPrev][col-1]) + int(cfa[loNext][col-1])) / 2
	}
	if d[bgdEast] <= threshold {
		n++
		sum[chGreen] += int(cfa[loCurr][col+1])
		sum[centralColor] += (int(cfa[loCurr][col+2]) + int(cfa[loCurr][col])) / 2
		sum[otherColor] += (int(cfa[loPrev][col+1]) + int(cfa[loNext][col+1])) / 2
	}

	center := int(cfa[loCurr][col])
	chans := [3]byte{}
	chans[centralColor] = pixbuf.ClampByte(center)
	chans[otherColor] = pixbuf.ClampByte(center + (sum[otherColor]-sum[centralColor])/n)
	chans[chGreen] = pixbuf.ClampByte(center + (sum[chGreen]-sum[centralColor])/n)
	e.writeOut(col, chans)
}

func (e *engine) writeOut(col int, chans [3]byte) {
	x, y := col-2, e.curRow-2
	e.out.SetBGR(x, y, chans[chBlue], chans[chGreen], chans[chRed])
}

// run drives the recovery loop over every output row, maintaining the
// rolling five-row CFA window and gradient caches as it goes.
func (e *engine) run() {
	// Prime the Top/Mid gradient slots for rowIndex == 2, the first row of
	// the loop below.
	e.cfaLines[loBeforePrev] = e.expRow(0)
	e.cfaLines[loPrev] = e.expRow(1)
	e.cfaLines[loCurr] = e.expRow(2)
	e.cfaLines[loNext] = e.expRow(3)
	e.cfaLines[loAfterNext] = e.expRow(4)

	e.calcVerticalGradient(e.cfaLines[loBeforePrev], e.cfaLines[loCurr], lgoTop)
	e.calcVerticalGradient(e.cfaLines[loPrev], e.cfaLines[loNext], lgoMid)
	e.calcHorizontalGradient(e.cfaLines[loPrev], lgoTop)
	e.calcHorizontalGradient(e.cfaLines[loCurr], lgoMid)

	e.calcDiagonalGradient(e.cfaLines[loBeforePrev], e.cfaLines[loCurr], false, true, lgoTop)
	e.calcDiagonalGradient(e.cfaLines[loBeforePrev], e.cfaLines[loCurr], false, false, lgoTop)
	e.calcDiagonalGradient(e.cfaLines[loPrev], e.cfaLines[loNext], false, true, lgoMid)
	e.calcDiagonalGradient(e.cfaLines[loPrev], e.cfaLines[loNext], false, false, lgoMid)
	e.calcDiagonalGradient(e.cfaLines[loBeforePrev], e.cfaLines[loPrev], true, true, sgoTop)
	e.calcDiagonalGradient(e.cfaLines[loBeforePrev], e.cfaLines[loPrev], true, false, sgoTop)
	e.calcDiagonalGradient(e.cfaLines[loPrev], e.cfaLines[loCurr], true, true, sgoMidTop)
	e.calcDiagonalGradient(e.cfaLines[loPrev], e.cfaLines[loCurr], true, false, sgoMidTop)
	e.calcDiagonalGradient(e.cfaLines[loCurr], e.cfaLines[loNext], true, true, sgoMidBot)
	e.calcDiagonalGradient(e.cfaLines[loCurr], e.cfaLines[loNext], true, false, sgoMidBot)

	for row := 2; row < e.expHeight-2; row++ {
		e.curRow = row
		e.cfaLines[loBeforePrev] = e.expRow(row - 2)
		e.cfaLines[loPrev] = e.expRow(row - 1)
		e.cfaLines[loCurr] = e.expRow(row)
		e.cfaLines[loNext] = e.expRow(row + 1)
		e.cfaLines[loAfterNext] = e.expRow(row + 2)

		e.updateGradients()

		isRedGreenLine := (row-2)%2 == 0
		horizOther, vertOther := chRed, chBlue
		if !isRedGreenLine {
			horizOther, vertOther = chBlue, chRed
		}

		for col := 2; col < e.expWidth-2; col++ {
			// Reflection padding preserves CFA parity across the border, so
			// the (x+y)-odd-is-green convention applies directly to
			// expanded-buffer coordinates too.
			pixelIsGreen := (row+col)%2 == 1
			if pixelIsGreen {
				e.calcDirectionGradientsForGreen(col)
				threshold := e.getGradientThreshold()
				e.interpolateColorsForGreen(col, threshold, horizOther, vertOther)
			} else {
				e.calcDirectionGradientsForNotGreen(col)
				threshold := e.getGradientThreshold()
				e.interpolateColorsForNotGreen(col, threshold, horizOther, vertOther)
			}
		}

		e.moveCache()
	}
}
