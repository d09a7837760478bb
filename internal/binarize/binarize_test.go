package binarize

import (
	"testing"

	"github.com/S4nh1seR/imgcores/internal/pixbuf"
)

func checkerboard(w, h int) *pixbuf.Gray {
	img := pixbuf.NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(40)
			if (x/4+y/4)%2 == 0 {
				v = 220
			}
			img.Set(x, y, v)
		}
	}
	return img
}

func TestBinarizePreservesDimensions(t *testing.T) {
	img := checkerboard(64, 48)
	out, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("got %dx%d, want %dx%d", out.Width, out.Height, img.Width, img.Height)
	}
}

func TestBinarizeRejectsEmptyImage(t *testing.T) {
	if _, err := Binarize(pixbuf.NewGray(0, 0), DefaultOptions()); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestBinarizeOutputIsBinary(t *testing.T) {
	img := checkerboard(32, 32)
	out, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	for _, v := range out.Pix {
		if v != 0 && v != 1 {
			t.Fatalf("non-binary value %d in output", v)
		}
	}
}

func TestBinarizeFlatImageHasNoForeground(t *testing.T) {
	img := pixbuf.NewGray(32, 32)
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out, err := Binarize(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	for _, v := range out.Pix {
		if v != 1 {
			t.Fatal("flat image should binarize to all-one: no pixel falls below the threshold")
		}
	}
}

func TestAllModesProduceOutput(t *testing.T) {
	img := checkerboard(40, 40)
	for _, m := range []Mode{ModeAvg, ModeCenter, ModeCenterMinWeighted, ModeAvgCenterWeighted, ModeBySeparatedNoiseLevels} {
		opts := DefaultOptions()
		opts.Mode = m
		if _, err := Binarize(img, opts); err != nil {
			t.Fatalf("mode %s: %v", m, err)
		}
	}
}

func TestParseModeRoundTrip(t *testing.T) {
	for _, name := range []string{"avg", "center", "center-min-weighted", "avg-center-weighted", "by-separated-noise-levels"} {
		m, err := ParseMode(name)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", name, err)
		}
		if m.String() != name {
			t.Fatalf("ParseMode(%q).String() = %q", name, m.String())
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestDivisibleSideSizeRounding(t *testing.T) {
	cases := []struct{ n, depth, want int }{
		{16, 4, 16}, {17, 4, 32}, {1, 0, 1}, {9, 2, 12},
	}
	for _, c := range cases {
		if got := getDivisibleSideSize(c.n, c.depth); got != c.want {
			t.Errorf("getDivisibleSideSize(%d,%d) = %d, want %d", c.n, c.depth, got, c.want)
		}
	}
}

func TestMaxSqueezeDegreeMatchesSourceFormula(t *testing.T) {
	cases := []struct{ side, want int }{
		{3, 1}, {64, 5}, {256, 7},
	}
	for _, c := range cases {
		if got := getMaxSqueezeDegree(c.side, c.side); got != c.want {
			t.Errorf("getMaxSqueezeDegree(%d,%d) = %d, want %d", c.side, c.side, got, c.want)
		}
	}
}

func TestThresholdFormulaMatchesSource(t *testing.T) {
	cases := []struct {
		mode       Mode
		mn, mx, av int
		want       int
	}{
		{ModeAvg, 10, 200, 90, 90},
		{ModeCenter, 10, 201, 90, 106},            // (10+201+1)/2
		{ModeCenterMinWeighted, 10, 200, 90, 73},  // med=105, (10+2*105+1)/3
		{ModeAvgCenterWeighted, 10, 201, 90, 98},  // med=105, (105+90+1)/2
	}
	for _, c := range cases {
		if got := thresholdFormula(c.mode, c.mn, c.mx, c.av); got != c.want {
			t.Errorf("thresholdFormula(%s, %d, %d, %d) = %d, want %d", c.mode, c.mn, c.mx, c.av, got, c.want)
		}
	}
}

func TestSeparatedNoiseLevelsThresholdHasNoRounding(t *testing.T) {
	// mode's own center formula omits the +1 rounding the other modes use.
	b := &binarizer{opts: Options{Mode: ModeBySeparatedNoiseLevels, SigmaMultiplier: 0}}
	m := newGrid(1, 1)
	m.set(0, 0, 255)
	b.minPyr = []grid{{}, newGrid(1, 1)}
	b.maxPyr = []grid{{}, newGrid(1, 1)}
	b.avgPyr = []grid{{}, newGrid(1, 1)}
	b.minPyr[1].set(0, 0, 11)
	b.maxPyr[1].set(0, 0, 200)
	b.avgPyr[1].set(0, 0, 90)
	b.binNoise = make([]float64, binsNumber)
	b.overwriteThresholdMap(m, 1)
	if got, want := m.at(0, 0), (11+200)/2; got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}
