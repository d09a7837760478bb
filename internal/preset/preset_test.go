package preset

import "testing"

func TestGetKnownPreset(t *testing.T) {
	p, ok := Get("fast")
	if !ok {
		t.Fatal("expected fast preset to be found")
	}
	if !p.FastMode || p.RBlockSize != 8 {
		t.Fatalf("unexpected fast preset: %+v", p)
	}
}

func TestGetUnknownPresetFallsBackToDefault(t *testing.T) {
	p, ok := Get("does-not-exist")
	if ok {
		t.Fatal("expected ok=false for unknown preset")
	}
	def, _ := Get("default")
	if p.RBlockSize != def.RBlockSize || p.Mode != def.Mode {
		t.Fatalf("fallback preset diverged from default: %+v vs %+v", p, def)
	}
	if p.Name != "does-not-exist" {
		t.Fatalf("expected fallback to preserve requested name, got %q", p.Name)
	}
}

func TestGetEmptyNameReturnsDefault(t *testing.T) {
	p, ok := Get("")
	if !ok {
		t.Fatal("expected ok=true for empty name")
	}
	if p.Name != "default" {
		t.Fatalf("expected default preset, got %+v", p)
	}
}

func TestBinarizeOptionsAdaptsFields(t *testing.T) {
	p, _ := Get("high-fidelity")
	opts := p.BinarizeOptions()
	if opts.Mode != p.Mode || opts.NoiseLevel != p.NoiseLevel || opts.SigmaMultiplier != p.SigmaMultiplier {
		t.Fatalf("BinarizeOptions mismatch: %+v vs preset %+v", opts, p)
	}
}
