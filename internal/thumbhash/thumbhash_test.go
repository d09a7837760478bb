package thumbhash

import (
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func gradientRGB(w, h int) *pixbuf.RGB {
	img := pixbuf.NewRGB(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetBGR(x, y, byte((x*2)%256), byte((y*3)%256), byte((x+y)%256))
		}
	}
	return img
}

func TestEncodeDeterministic(t *testing.T) {
	img := gradientRGB(32, 32)
	h1 := Encode(img)
	h2 := Encode(img)
	if len(h1) == 0 {
		t.Fatal("empty hash")
	}
	if len(h1) != len(h2) {
		t.Fatalf("length mismatch: %d vs %d", len(h1), len(h2))
	}
	for i := range h1 {
		if h1[i] != h2[i] {
			t.Fatalf("byte %d differs: %02x vs %02x", i, h1[i], h2[i])
		}
	}
}

func TestEncodeSizeRange(t *testing.T) {
	img := gradientRGB(64, 48)
	hash := Encode(img)
	if len(hash) < 5 || len(hash) > 60 {
		t.Errorf("unexpected hash size: %d bytes", len(hash))
	}
}

func TestEncodeRejectsEmptyImage(t *testing.T) {
	if Encode(&pixbuf.RGB{}) != nil {
		t.Fatal("expected nil hash for empty image")
	}
}

func TestEncodeGrayMatchesFlatColor(t *testing.T) {
	gray := pixbuf.NewGray(16, 16)
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}
	rgb := pixbuf.NewRGB(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			rgb.SetBGR(x, y, 128, 128, 128)
		}
	}
	hGray := EncodeGray(gray)
	hRGB := Encode(rgb)
	if len(hGray) != len(hRGB) {
		t.Fatalf("length mismatch: %d vs %d", len(hGray), len(hRGB))
	}
	for i := range hGray {
		if hGray[i] != hRGB[i] {
			t.Fatalf("byte %d differs: %02x vs %02x", i, hGray[i], hRGB[i])
		}
	}
}

func TestEncodeDistinguishesDifferentImages(t *testing.T) {
	a := gradientRGB(32, 32)
	b := pixbuf.NewRGB(32, 32)
	h1 := Encode(a)
	h2 := Encode(b)
	same := len(h1) == len(h2)
	if same {
		for i := range h1 {
			if h1[i] != h2[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatal("distinct images produced identical hashes")
	}
}

func TestEncodeHandlesLargeImageDownsample(t *testing.T) {
	img := gradientRGB(256, 160)
	hash := Encode(img)
	if len(hash) == 0 {
		t.Fatal("expected non-empty hash for downsampled image")
	}
}
