// Package fractal implements affine fractal (IFS) compression and
// decompression of 256x256 grayscale images: the image is partitioned into
// non-overlapping range blocks, each mapped to the best-fitting domain block
// (twice the range block's side, drawn from an overlapping grid) under one
// of the eight dihedral-group orientations, with a quantized contrast scale
// and brightness bias. Decoding iterates the resulting affine map system to
// a fixed point starting from an arbitrary image.
package fractal

import "fmt"

// Size is the fixed side length of every image this package operates on.
const Size = 256

// ScaleBase is the fixed-point denominator a stored Scale value is divided
// by to recover the real-valued contrast multiplier (Scale/ScaleBase).
const ScaleBase = 32

// Orientation is one of the eight elements of the dihedral group of the
// square: four rotations and their mirror images.
type Orientation uint8

const (
	Rot0 Orientation = iota
	Rot90
	Rot180
	Rot270
	MirroredRot0
	MirroredRot90
	MirroredRot180
	MirroredRot270
	orientationCount
)

// RDBlockMapping is the affine mapping recorded for a single range block: the
// top-left corner of the chosen domain block, the orientation applied to it,
// and the quantized scale/bias of the contrast transform.
type RDBlockMapping struct {
	TopLeftX, TopLeftY int
	Orientation        Orientation
	Scale              uint8 // 5 bits: 0..31, real multiplier is Scale/ScaleBase
	Bias               int8
}

// ValidateBlockSize reports whether r is an accepted range-block side. The
// specification restricts this to 4 or 8 so a range block downsamples evenly
// from its 2R-side domain block and the image divides evenly into blocks.
func ValidateBlockSize(r int) error {
	if r != 4 && r != 8 {
		return fmt.Errorf("fractal: unsupported range block size %d (want 4 or 8)", r)
	}
	if Size%r != 0 {
		return fmt.Errorf("fractal: range block size %d does not divide image size %d", r, Size)
	}
	return nil
}

// clampScale saturates a fixed-point scale numerator to the representable
// 5-bit unsigned range.
func clampScale(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 31 {
		return 31
	}
	return uint8(v)
}

// clampBias saturates a bias value to the representable signed 8-bit range.
func clampBias(v int) int8 {
	if v < -128 {
		return -128
	}
	if v > 127 {
		return 127
	}
	return int8(v)
}

func clamp255(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// convolveBlock reindexes an R-by-R downsampled domain block according to
// orientation, producing the R-by-R array that is actually compared against
// the range block during compression.
//
// This switch is distinct from decodeBlockOrigin: compression addresses the
// already-downsampled R-sized domain samples, while decoding addresses the
// original, not-yet-downsampled pixel grid at twice the resolution.
func convolveBlock(d [][]int, r int, o Orientation) [][]int {
	out := make([][]int, r)
	for i := range out {
		out[i] = make([]int, r)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			switch o {
			case Rot0:
				out[i][j] = d[i][j]
			case Rot90:
				out[i][j] = d[j][r-1-i]
			case Rot180:
				out[i][j] = d[r-1-i][r-1-j]
			case Rot270:
				out[i][j] = d[r-1-j][i]
			case MirroredRot0:
				out[i][j] = d[i][r-1-j]
			case MirroredRot90:
				out[i][j] = d[r-1-j][r-1-i]
			case MirroredRot180:
				out[i][j] = d[r-1-i][j]
			case MirroredRot270:
				out[i][j] = d[j][i]
			}
		}
	}
	return out
}

// orientationHashPermutations gives, for each orientation, the order its
// four quadrants (TL, TR, BL, BR in source order) land in after the
// orientation is applied; blockHash reads a block's quadrant-vs-global-mean
// bits in that permuted order so that hashing a domain block under
// orientation o is comparable to hashing an untransformed range block.
var orientationHashPermutations = [8][4]int{
	{0, 1, 2, 3},
	{1, 3, 0, 2},
	{3, 2, 1, 0},
	{2, 0, 3, 1},
	{1, 0, 3, 2},
	{3, 1, 2, 0},
	{2, 3, 0, 1},
	{0, 2, 1, 3},
}

// quadrantMeans returns the rounded mean intensity of the block's four
// quadrants (TL, TR, BL, BR) and of the whole block, for an r-by-r block
// with r even.
func quadrantMeans(block [][]int, r int) (quadrants [4]int, global int) {
	half := r / 2
	var sums [4]int
	var total int
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			q := 0
			if i >= half {
				q += 2
			}
			if j >= half {
				q++
			}
			sums[q] += block[i][j]
			total += block[i][j]
		}
	}
	subArea := half * half
	for q := 0; q < 4; q++ {
		quadrants[q] = (sums[q] + subArea/2) / subArea
	}
	area := r * r
	global = (total + area/2) / area
	return quadrants, global
}

// blockHash computes the 4-bit contrast-pattern hash of block under
// orientation o: bit k is 1 iff the quadrant that orientationHashPermutations
// places in position k has a mean above the block's global mean. A range
// block's own hash uses Rot0 (it is never itself reoriented).
func blockHash(block [][]int, r int, o Orientation) int {
	quadrants, global := quadrantMeans(block, r)
	perm := orientationHashPermutations[o]
	hash := 0
	for k := 0; k < 4; k++ {
		if quadrants[perm[k]] > global {
			hash |= 1 << uint(k)
		}
	}
	return hash
}
