package metrics

import (
	"math"
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func TestLumaOfWhiteIsWhite(t *testing.T) {
	if got := Luma(255, 255, 255); got != 255 {
		t.Errorf("Luma(white) = %d, want 255", got)
	}
}

func TestLumaOfBlackIsBlack(t *testing.T) {
	if got := Luma(0, 0, 0); got != 0 {
		t.Errorf("Luma(black) = %d, want 0", got)
	}
}

func TestMSEIdenticalImagesIsZero(t *testing.T) {
	a := pixbuf.NewGray(8, 8)
	for i := range a.Pix {
		a.Pix[i] = byte(i)
	}
	mse, err := MSE(a, a)
	if err != nil {
		t.Fatalf("MSE: %v", err)
	}
	if mse != 0 {
		t.Errorf("MSE of identical images = %f, want 0", mse)
	}
}

func TestMSEDimensionMismatch(t *testing.T) {
	a := pixbuf.NewGray(4, 4)
	b := pixbuf.NewGray(4, 5)
	if _, err := MSE(a, b); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestPSNRInfiniteForZeroMSE(t *testing.T) {
	if p := PSNR(0); !math.IsInf(p, 1) {
		t.Errorf("PSNR(0) = %f, want +Inf", p)
	}
}

func TestMSECuttedExcludesBorder(t *testing.T) {
	a := pixbuf.NewGray(10, 10)
	b := pixbuf.NewGray(10, 10)
	for i := range b.Pix {
		b.Pix[i] = a.Pix[i]
	}
	// Corrupt only the top and bottom rows, inside the excluded border.
	for x := 0; x < 10; x++ {
		b.Set(x, 0, 255)
		b.Set(x, 9, 255)
	}
	cut, err := MSECutted(a, b)
	if err != nil {
		t.Fatalf("MSECutted: %v", err)
	}
	if cut != 0 {
		t.Errorf("MSECutted should ignore border corruption, got %f", cut)
	}
	full, err := MSE(a, b)
	if err != nil {
		t.Fatalf("MSE: %v", err)
	}
	if full == 0 {
		t.Error("full MSE should reflect border corruption")
	}
}
