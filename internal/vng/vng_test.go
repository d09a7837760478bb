package vng

import (
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func flatCFA(width, height int, v byte) *pixbuf.Gray {
	g := pixbuf.NewGray(width, height)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestRecoverPreservesDimensions(t *testing.T) {
	cfa := flatCFA(16, 12, 128)
	out, err := Recover(cfa)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if out.Width != cfa.Width || out.Height != cfa.Height {
		t.Fatalf("dimensions changed: got %dx%d, want %dx%d", out.Width, out.Height, cfa.Width, cfa.Height)
	}
}

func TestRecoverFlatFieldIsUniform(t *testing.T) {
	cfa := flatCFA(16, 16, 200)
	out, err := Recover(cfa)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			b, g, r := out.At(x, y)
			if b != 200 || g != 200 || r != 200 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (200,200,200)", x, y, b, g, r)
			}
		}
	}
}

func TestRecoverRejectsEmptyBuffer(t *testing.T) {
	if _, err := Recover(pixbuf.NewGray(0, 0)); err == nil {
		t.Fatal("expected error for zero-size CFA buffer")
	}
}

func TestRecoverHandlesTinyImages(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {2, 2}, {3, 3}, {1, 5}, {5, 1}} {
		cfa := pixbuf.NewGray(sz[0], sz[1])
		for i := range cfa.Pix {
			cfa.Pix[i] = byte(i * 37 % 256)
		}
		out, err := Recover(cfa)
		if err != nil {
			t.Fatalf("Recover(%dx%d): %v", sz[0], sz[1], err)
		}
		if out.Width != sz[0] || out.Height != sz[1] {
			t.Fatalf("Recover(%dx%d): got %dx%d", sz[0], sz[1], out.Width, out.Height)
		}
	}
}

func TestRecoverKeepsKnownChannelAtNativePixel(t *testing.T) {
	// Every recovered pixel's native CFA channel (the one actually sampled)
	// must equal the raw CFA value, regardless of how the other two are
	// interpolated.
	cfa := pixbuf.NewGray(20, 20)
	for y := 0; y < cfa.Height; y++ {
		for x := 0; x < cfa.Width; x++ {
			cfa.Set(x, y, byte((x*31+y*17)%256))
		}
	}
	out, err := Recover(cfa)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	for y := 0; y < cfa.Height; y++ {
		for x := 0; x < cfa.Width; x++ {
			b, g, r := out.At(x, y)
			native := cfa.At(x, y)
			isGreen := (x+y)%2 == 1
			switch {
			case isGreen:
				if g != native {
					t.Fatalf("(%d,%d): green channel %d != native %d", x, y, g, native)
				}
			case y%2 == 0:
				if r != native {
					t.Fatalf("(%d,%d): red channel %d != native %d", x, y, r, native)
				}
			default:
				if b != native {
					t.Fatalf("(%d,%d): blue channel %d != native %d", x, y, b, native)
				}
			}
		}
	}
}

func TestReflectIndex(t *testing.T) {
	cases := []struct{ k, n, want int }{
		{0, 10, 0}, {5, 10, 5}, {-1, 10, 1}, {-2, 10, 2},
		{10, 10, 8}, {11, 10, 7},
		{0, 1, 0}, {5, 1, 0}, {-3, 1, 0},
	}
	for _, c := range cases {
		if got := reflectIndex(c.k, c.n); got != c.want {
			t.Errorf("reflectIndex(%d,%d) = %d, want %d", c.k, c.n, got, c.want)
		}
	}
}
