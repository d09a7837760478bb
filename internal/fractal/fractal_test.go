package fractal

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func gradientImage() *pixbuf.Gray {
	img := pixbuf.NewGray(Size, Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			img.Set(x, y, byte((x+y)%256))
		}
	}
	return img
}

func TestValidateBlockSize(t *testing.T) {
	if err := ValidateBlockSize(4); err != nil {
		t.Errorf("4 should be valid: %v", err)
	}
	if err := ValidateBlockSize(8); err != nil {
		t.Errorf("8 should be valid: %v", err)
	}
	if err := ValidateBlockSize(5); err == nil {
		t.Error("5 should be rejected")
	}
}

func TestCompressorRejectsWrongSize(t *testing.T) {
	img := pixbuf.NewGray(100, 100)
	if _, err := NewCompressor(img, 8, false); err == nil {
		t.Fatal("expected error for non-256x256 image")
	}
}

func TestCompressProducesOneMappingPerRangeBlock(t *testing.T) {
	img := gradientImage()
	c, err := NewCompressor(img, 8, true)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	mappings := c.Compress()
	want := (Size / 8) * (Size / 8)
	if len(mappings) != want {
		t.Fatalf("got %d mappings, want %d", len(mappings), want)
	}
	for _, m := range mappings {
		if m.Scale > 31 {
			t.Errorf("scale %d out of range", m.Scale)
		}
		if m.TopLeftX < 0 || m.TopLeftX > Size-2*8 || m.TopLeftY < 0 || m.TopLeftY > Size-2*8 {
			t.Errorf("domain origin (%d,%d) out of range", m.TopLeftX, m.TopLeftY)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	img := gradientImage()
	c, err := NewCompressor(img, 8, true)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	mappings := c.Compress()

	var buf bytes.Buffer
	if err := WriteMappings(&buf, 8, mappings); err != nil {
		t.Fatalf("WriteMappings: %v", err)
	}
	rb, got, err := ReadMappings(&buf)
	if err != nil {
		t.Fatalf("ReadMappings: %v", err)
	}
	if rb != 8 {
		t.Fatalf("rBlockSize = %d, want 8", rb)
	}
	if len(got) != len(mappings) {
		t.Fatalf("got %d mappings, want %d", len(got), len(mappings))
	}
	for i := range mappings {
		if got[i] != mappings[i] {
			t.Fatalf("mapping %d: got %+v, want %+v", i, got[i], mappings[i])
		}
	}
}

func TestDecompressProducesFullSizeImage(t *testing.T) {
	img := gradientImage()
	c, err := NewCompressor(img, 8, true)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	mappings := c.Compress()

	dc, err := NewDecompressor(mappings, 8, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}
	out := dc.Decompress(4, nil)
	if out.Width != Size || out.Height != Size {
		t.Fatalf("got %dx%d, want %dx%d", out.Width, out.Height, Size, Size)
	}
}

func TestCompressConstantImageIsAllFlatMappings(t *testing.T) {
	img := pixbuf.NewGray(Size, Size)
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	c, err := NewCompressor(img, 4, false)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	mappings := c.Compress()
	want := (Size / 4) * (Size / 4)
	if len(mappings) != want {
		t.Fatalf("got %d mappings, want %d", len(mappings), want)
	}
	// The mean is 128, which the signed 8-bit bias saturates to 127.
	for i, m := range mappings {
		if m.Scale != 0 || m.Bias != 127 || m.Orientation != Rot0 || m.TopLeftX != 0 || m.TopLeftY != 0 {
			t.Fatalf("mapping %d: got %+v, want scale=0 bias=127 orientation=Rot0 origin=(0,0)", i, m)
		}
	}
}

func TestDecompressorRejectsMismatchedMappingCount(t *testing.T) {
	_, err := NewDecompressor(make([]RDBlockMapping, 3), 8, nil)
	if err == nil {
		t.Fatal("expected error for wrong mapping count")
	}
}

func TestDecompressIsDeterministicForFixedSeed(t *testing.T) {
	mappings := make([]RDBlockMapping, (Size/8)*(Size/8))
	for i := range mappings {
		mappings[i] = RDBlockMapping{Scale: 16, Bias: 0}
	}
	dc1, _ := NewDecompressor(mappings, 8, rand.New(rand.NewSource(7)))
	dc2, _ := NewDecompressor(mappings, 8, rand.New(rand.NewSource(7)))
	out1 := dc1.Decompress(3, nil)
	out2 := dc2.Decompress(3, nil)
	if !bytes.Equal(out1.Pix, out2.Pix) {
		t.Fatal("same seed produced different attractors")
	}
}
