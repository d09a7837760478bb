package hasher

import (
	"bytes"
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func TestContentHashIsDeterministic(t *testing.T) {
	data := []byte("fractal range block")
	if ContentHash(data, 16) != ContentHash(data, 16) {
		t.Fatal("hash of identical input differs")
	}
}

func TestContentHashTruncation(t *testing.T) {
	h := ContentHash([]byte("abc"), 8)
	if len(h) != 8 {
		t.Fatalf("got length %d, want 8", len(h))
	}
}

func TestContentHashReaderMatchesContentHash(t *testing.T) {
	data := []byte("same bytes, two paths")
	want := ContentHash(data, 16)
	got, err := ContentHashReader(bytes.NewReader(data), 16)
	if err != nil {
		t.Fatalf("ContentHashReader: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHashGrayMatchesContentHash(t *testing.T) {
	img := pixbuf.NewGray(4, 4)
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	if HashGray(img, 16) != ContentHash(img.Pix, 16) {
		t.Fatal("HashGray diverged from ContentHash(img.Pix)")
	}
}

func TestDifferentBuffersHashDifferently(t *testing.T) {
	a := pixbuf.NewGray(2, 2)
	b := pixbuf.NewGray(2, 2)
	b.Pix[0] = 1
	if HashGray(a, 16) == HashGray(b, 16) {
		t.Fatal("distinct buffers produced the same hash")
	}
}
