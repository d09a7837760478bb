package ccitt

import (
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func TestEncodeProducesNonEmptyOutput(t *testing.T) {
	img := pixbuf.NewBit(32, 4)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := byte(0)
			if x%8 < 4 {
				v = 1
			}
			img.Set(x, y, v)
		}
	}
	out := Encode(img)
	if len(out) == 0 {
		t.Fatal("expected non-empty encoded output")
	}
}

func TestEncodeAllWhiteRow(t *testing.T) {
	img := pixbuf.NewBit(64, 1)
	out := Encode(img)
	if len(out) == 0 {
		t.Fatal("expected non-empty encoded output for all-white row")
	}
}

func TestEncodeAllBlackRow(t *testing.T) {
	img := pixbuf.NewBit(64, 1)
	for x := 0; x < img.Width; x++ {
		img.Set(x, 0, 1)
	}
	out := Encode(img)
	if len(out) == 0 {
		t.Fatal("expected non-empty encoded output for all-black row")
	}
}

func TestEncodeLongRunUsesMakeupCodes(t *testing.T) {
	img := pixbuf.NewBit(3000, 1)
	// All white: exercises makeup-code chaining beyond 1728.
	out := Encode(img)
	if len(out) == 0 {
		t.Fatal("expected non-empty encoded output for long run")
	}
}
