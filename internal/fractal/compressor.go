package fractal

import (
	"fmt"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Compressor searches, for every range block of a 256x256 image, the
// best-fitting domain block/orientation/scale/bias affine mapping.
type Compressor struct {
	img      *pixbuf.Gray
	rBlock   int
	fastMode bool
}

// NewCompressor validates its inputs and returns a Compressor ready to run.
func NewCompressor(img *pixbuf.Gray, rBlockSize int, fastMode bool) (*Compressor, error) {
	if img.Width != Size || img.Height != Size {
		return nil, fmt.Errorf("fractal: image must be %dx%d, got %dx%d", Size, Size, img.Width, img.Height)
	}
	if err := ValidateBlockSize(rBlockSize); err != nil {
		return nil, err
	}
	return &Compressor{img: img, rBlock: rBlockSize, fastMode: fastMode}, nil
}

// Compress returns one RDBlockMapping per range block, in raster order.
func (c *Compressor) Compress() []RDBlockMapping {
	r := c.rBlock
	d := 2 * r
	gridSide := Size / r
	domainStep := r
	domainPositions := (Size-d)/domainStep + 1

	// Precompute every candidate domain block's downsampled R-by-R average
	// once; each is reused across every range block it is compared against.
	type domainCandidate struct {
		x, y int
		down [][]int
	}
	candidates := make([]domainCandidate, 0, domainPositions*domainPositions)
	for dy := 0; dy < domainPositions; dy++ {
		for dx := 0; dx < domainPositions; dx++ {
			ox, oy := dx*domainStep, dy*domainStep
			candidates = append(candidates, domainCandidate{x: ox, y: oy, down: c.downsample(ox, oy, r)})
		}
	}

	mappings := make([]RDBlockMapping, gridSide*gridSide)
	for by := 0; by < gridSide; by++ {
		for bx := 0; bx < gridSide; bx++ {
			rBlock := c.rangeBlock(bx*r, by*r, r)
			n := r * r
			sr, srr := blockSums(rBlock, r)

			// Flat-candidate loss: sum((range - mean)^2), with the mean
			// division truncated before the subtraction, per the source's
			// documented integer-division order.
			bestLoss := srr - (sr*sr)/n
			best := RDBlockMapping{Scale: 0, Bias: clampBias(sr / n), Orientation: Rot0}

			// Variance-per-pixel gate for the fast-mode hash prune: both
			// divisions truncate in this order before the comparison.
			lowVariance := (srr-(sr*sr)/n)/n < 10
			rHash := 0
			if c.fastMode && !lowVariance {
				rHash = blockHash(rBlock, r, Rot0)
			}

			for _, cand := range candidates {
				sd, sdd := blockSums(cand.down, r)
				for o := Orientation(0); o < orientationCount; o++ {
					conv := convolveBlock(cand.down, r, o)

					denom := n*sdd - sd*sd
					if denom == 0 {
						loss := srr - (sr*sr)/n
						if loss < bestLoss {
							bestLoss = loss
							best = RDBlockMapping{TopLeftX: cand.x, TopLeftY: cand.y, Orientation: Rot0, Scale: 0, Bias: clampBias(sr / n)}
						}
						continue
					}
					if c.fastMode && !lowVariance && blockHash(cand.down, r, o) != rHash {
						continue
					}

					srd := dotProduct(rBlock, conv, r)
					scaleReal := (float64(n*srd) - float64(sr*sd)) / float64(denom)
					if scaleReal < 0 || scaleReal >= 1 {
						continue
					}
					scaleQ := clampScale(int(scaleReal * ScaleBase))
					biasQ := clampBias((sr - (sd*int(scaleQ))/ScaleBase) / n)

					sq := int(scaleQ)
					b := int(biasQ)
					loss := srr + (sdd*sq/ScaleBase-2*srd+2*b*sd)*sq/ScaleBase + b*(b*n-2*sr)
					if loss < bestLoss {
						bestLoss = loss
						best = RDBlockMapping{TopLeftX: cand.x, TopLeftY: cand.y, Orientation: o, Scale: scaleQ, Bias: biasQ}
					}
				}
			}
			mappings[by*gridSide+bx] = best
		}
	}
	return mappings
}

// dotProduct sums the elementwise product of two r-by-r int matrices.
func dotProduct(a, b [][]int, r int) int {
	sum := 0
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			sum += a[i][j] * b[i][j]
		}
	}
	return sum
}

// rangeBlock extracts an r-by-r block of the source image as an int matrix.
func (c *Compressor) rangeBlock(x0, y0, r int) [][]int {
	out := make([][]int, r)
	for i := 0; i < r; i++ {
		out[i] = make([]int, r)
		for j := 0; j < r; j++ {
			out[i][j] = int(c.img.At(x0+j, y0+i))
		}
	}
	return out
}

// downsample averages each 2x2 pixel group of the 2r-by-2r domain block
// rooted at (x0, y0) into an r-by-r block, using the rounded-mean convention
// shared with the binarizer's pyramid reduction.
func (c *Compressor) downsample(x0, y0, r int) [][]int {
	out := make([][]int, r)
	for i := 0; i < r; i++ {
		out[i] = make([]int, r)
		for j := 0; j < r; j++ {
			a := int(c.img.At(x0+2*j, y0+2*i))
			b := int(c.img.At(x0+2*j+1, y0+2*i))
			cc := int(c.img.At(x0+2*j, y0+2*i+1))
			dd := int(c.img.At(x0+2*j+1, y0+2*i+1))
			out[i][j] = (a + b + cc + dd + 2) / 4
		}
	}
	return out
}

func blockSums(block [][]int, r int) (sum, sumSq int) {
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			v := block[i][j]
			sum += v
			sumSq += v * v
		}
	}
	return
}

