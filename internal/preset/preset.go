// Package preset resolves named parameter bundles for the fractal and
// binarize engines, mirroring the corpus's profile.Get resolve-by-name
// shape: a small built-in map plus a lookup that falls back to a default
// rather than failing, since an unknown preset name is an argument-shape
// error (non-aborting per the CLI's error-handling design) and not a
// precondition violation.
package preset

import "github.com/S4nh1seR/imgcores/internal/binarize"

// Preset bundles the tunable parameters of a single engine invocation.
type Preset struct {
	Name string

	// Fractal parameters.
	RBlockSize int
	FastMode   bool

	// Binarizer parameters.
	Mode            binarize.Mode
	NoiseLevel      int
	SigmaMultiplier float64
}

const defaultName = "default"

var presets = map[string]Preset{
	"default": {
		Name:            "default",
		RBlockSize:      4,
		FastMode:        false,
		Mode:            binarize.DefaultMode,
		NoiseLevel:      binarize.DefaultNoiseLevel,
		SigmaMultiplier: binarize.DefaultSigmaMultiplier,
	},
	"fast": {
		Name:            "fast",
		RBlockSize:      8,
		FastMode:        true,
		Mode:            binarize.ModeAvg,
		NoiseLevel:      binarize.DefaultNoiseLevel,
		SigmaMultiplier: binarize.DefaultSigmaMultiplier,
	},
	"high-fidelity": {
		Name:            "high-fidelity",
		RBlockSize:      4,
		FastMode:        false,
		Mode:            binarize.ModeBySeparatedNoiseLevels,
		NoiseLevel:      binarize.DefaultNoiseLevel,
		SigmaMultiplier: binarize.DefaultSigmaMultiplier,
	},
}

// BinarizeOptions adapts a Preset to internal/binarize's Options shape.
func (p Preset) BinarizeOptions() binarize.Options {
	return binarize.Options{Mode: p.Mode, NoiseLevel: p.NoiseLevel, SigmaMultiplier: p.SigmaMultiplier}
}

// Get returns the named preset. If name is unknown, it returns the default
// preset with Name overwritten to the requested name, so a caller logging
// "using preset %q" still reports what was asked for, and ok is false so
// the caller can warn without aborting.
func Get(name string) (p Preset, ok bool) {
	if name == "" {
		return presets[defaultName], true
	}
	if p, found := presets[name]; found {
		return p, true
	}
	fallback := presets[defaultName]
	fallback.Name = name
	return fallback, false
}
