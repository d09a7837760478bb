package imageio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func TestBMPGrayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")

	src := pixbuf.NewGray(5, 3)
	for i := range src.Pix {
		src.Pix[i] = byte(i * 7)
	}
	if err := SaveGrayBMP(path, src); err != nil {
		t.Fatalf("SaveGrayBMP: %v", err)
	}

	got, err := LoadGray(path)
	if err != nil {
		t.Fatalf("LoadGray: %v", err)
	}
	if got.Width != src.Width || got.Height != src.Height {
		t.Fatalf("dimension mismatch: got %dx%d want %dx%d", got.Width, got.Height, src.Width, src.Height)
	}
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d: got %d want %d", i, got.Pix[i], src.Pix[i])
		}
	}
}

func TestBMPColorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")

	src := pixbuf.NewRGB(4, 2)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			src.SetBGR(x, y, byte(x*10), byte(y*20), byte(x+y))
		}
	}
	if err := SaveColorBMP(path, src); err != nil {
		t.Fatalf("SaveColorBMP: %v", err)
	}

	got, err := LoadColor(path)
	if err != nil {
		t.Fatalf("LoadColor: %v", err)
	}
	if got.Width != src.Width || got.Height != src.Height {
		t.Fatalf("dimension mismatch: got %dx%d want %dx%d", got.Width, got.Height, src.Width, src.Height)
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			wb, wg, wr := src.At(x, y)
			gb, gg, gr := got.At(x, y)
			if wb != gb || wg != gg || wr != gr {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d) want (%d,%d,%d)", x, y, gb, gg, gr, wb, wg, wr)
			}
		}
	}
}

func TestLoadGrayMissingFile(t *testing.T) {
	if _, err := LoadGray(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveBilevelTIFFProducesNonEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tif")

	img := pixbuf.NewBit(16, 4)
	for x := 0; x < img.Width; x++ {
		img.Set(x, 1, 1)
	}
	if err := SaveBilevelTIFF(path, img); err != nil {
		t.Fatalf("SaveBilevelTIFF: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() <= 8 {
		t.Fatalf("expected file larger than the TIFF header, got %d bytes", info.Size())
	}

	header := make([]byte, 4)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := f.Read(header); err != nil {
		t.Fatalf("read header: %v", err)
	}
	if string(header[:2]) != "II" || header[2] != 42 || header[3] != 0 {
		t.Fatalf("unexpected TIFF header: %v", header)
	}
}
