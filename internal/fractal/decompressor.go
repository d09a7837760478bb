package fractal

import (
	"fmt"
	"math/rand"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

// Decompressor iterates a set of affine range-to-domain mappings to their
// fixed-point attractor image.
type Decompressor struct {
	mappings []RDBlockMapping
	rBlock   int
	rng      *rand.Rand
}

// NewDecompressor validates the mapping count against rBlockSize and returns
// a Decompressor seeded by rng. Passing an explicit *rand.Rand (rather than
// reaching for a global, non-reproducible source) keeps attractor iteration
// deterministic and testable.
func NewDecompressor(mappings []RDBlockMapping, rBlockSize int, rng *rand.Rand) (*Decompressor, error) {
	if err := ValidateBlockSize(rBlockSize); err != nil {
		return nil, err
	}
	gridSide := Size / rBlockSize
	if want := gridSide * gridSide; len(mappings) != want {
		return nil, fmt.Errorf("fractal: expected %d mappings for block size %d, got %d", want, rBlockSize, len(mappings))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Decompressor{mappings: mappings, rBlock: rBlockSize, rng: rng}, nil
}

// IterationObserver, when non-nil, is invoked after each completed iteration
// with the current reconstructed image, letting a caller dump an
// intermediate attractor snapshot or track convergence metrics.
type IterationObserver func(iteration int, img *pixbuf.Gray)

// Decompress runs iterations full passes of the affine map system starting
// from a random image, and returns the final reconstructed image.
func (d *Decompressor) Decompress(iterations int, observe IterationObserver) *pixbuf.Gray {
	curr := d.randomImage()
	for it := 0; it < iterations; it++ {
		next := pixbuf.NewGray(Size, Size)
		r := d.rBlock
		gridSide := Size / r
		for by := 0; by < gridSide; by++ {
			for bx := 0; bx < gridSide; bx++ {
				m := d.mappings[by*gridSide+bx]
				d.applyMapping(curr, next, bx*r, by*r, r, m)
			}
		}
		curr = next
		if observe != nil {
			observe(it, curr)
		}
	}
	return curr
}

func (d *Decompressor) randomImage() *pixbuf.Gray {
	img := pixbuf.NewGray(Size, Size)
	d.rng.Read(img.Pix)
	return img
}

// applyMapping fills the r-by-r range block at (rx, ry) in dst by sampling
// the domain block addressed by m in src, downsampling 2x2 groups, applying
// m's orientation, and then m's contrast scale/bias.
func (d *Decompressor) applyMapping(src, dst *pixbuf.Gray, rx, ry, r int, m RDBlockMapping) {
	approxNum := int(m.Scale)
	bias := int(m.Bias)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			sx, sy := decodeBlockOrigin(m.TopLeftX, m.TopLeftY, r, i, j, m.Orientation)
			a := int(src.At(sx, sy))
			b := int(src.At(sx+1, sy))
			c := int(src.At(sx, sy+1))
			e := int(src.At(sx+1, sy+1))
			down := (a + b + c + e + 2) / 4
			out := clamp255((down*approxNum+16)/32 + bias)
			dst.Set(rx+j, ry+i, out)
		}
	}
}

// decodeBlockOrigin maps a destination (i, j) offset within an r-by-r range
// block, under orientation o, to the top-left pixel coordinate of the 2x2
// source group to downsample from the domain block rooted at (x0, y0).
//
// This addressing is in raw pixel space scaled by two (the domain block is
// 2r-by-2r), which is why it is a distinct switch from convolveBlock's
// already-downsampled r-by-r indexing used on the compression side.
func decodeBlockOrigin(x0, y0, r, i, j int, o Orientation) (int, int) {
	switch o {
	case Rot0:
		return x0 + 2*j, y0 + 2*i
	case Rot90:
		return x0 + 2*(r-1-i), y0 + 2*j
	case Rot180:
		return x0 + 2*(r-1-j), y0 + 2*(r-1-i)
	case Rot270:
		return x0 + 2*i, y0 + 2*(r-1-j)
	case MirroredRot0:
		return x0 + 2*(r-1-j), y0 + 2*i
	case MirroredRot90:
		return x0 + 2*(r-1-i), y0 + 2*(r-1-j)
	case MirroredRot180:
		return x0 + 2*j, y0 + 2*(r-1-i)
	default: // MirroredRot270
		return x0 + 2*i, y0 + 2*j
	}
}
