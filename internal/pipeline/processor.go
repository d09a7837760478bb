package pipeline

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/S4nh1seR/imgcores/internal/binarize"
	"github.com/S4nh1seR/imgcores/internal/encoder"
	"github.com/S4nh1seR/imgcores/internal/fractal"
	"github.com/S4nh1seR/imgcores/internal/hasher"
	"github.com/S4nh1seR/imgcores/internal/imageio"
	"github.com/S4nh1seR/imgcores/internal/manifest"
	"github.com/S4nh1seR/imgcores/internal/metrics"
	"github.com/S4nh1seR/imgcores/internal/pixbuf"
	"github.com/S4nh1seR/imgcores/internal/thumbhash"
	"github.com/S4nh1seR/imgcores/internal/vng"
)

// processOne runs cfg.Engine over a single source image and returns its
// manifest entry. Every failure is captured in entry.Error rather than
// returned, so one bad file never removes its row from the batch report.
func processOne(src Source, cfg Config, registry *encoder.Registry) manifest.Entry {
	entry := manifest.Entry{SourcePath: src.RelPath}
	start := time.Now()
	defer func() { entry.DurationMS = time.Since(start).Milliseconds() }()

	outDir := filepath.Join(cfg.OutputDir, filepath.Dir(src.RelPath))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		entry.Error = fmt.Sprintf("create output dir: %v", err)
		return entry
	}
	base := strings.TrimSuffix(filepath.Base(src.RelPath), filepath.Ext(src.RelPath))

	switch cfg.Engine {
	case "vng":
		runVNG(src, cfg, outDir, base, &entry, registry)
	case "fractal":
		runFractal(src, cfg, outDir, base, &entry, registry)
	case "binarize":
		runBinarize(src, cfg, outDir, base, &entry, registry)
	default:
		entry.Error = fmt.Sprintf("unsupported engine %q", cfg.Engine)
	}
	return entry
}

func runVNG(src Source, cfg Config, outDir, base string, entry *manifest.Entry, registry *encoder.Registry) {
	cfa, _, err := imageio.LoadAny(src.AbsPath, imageio.ModeGray)
	if err != nil {
		entry.Error = err.Error()
		return
	}
	out, err := vng.Recover(cfa)
	if err != nil {
		entry.Error = err.Error()
		return
	}

	outPath := filepath.Join(outDir, base+".recovered.bmp")
	if err := imageio.SaveColorBMP(outPath, out); err != nil {
		entry.Error = fmt.Sprintf("write output: %v", err)
		return
	}

	fillCommonFields(entry, src, outPath, cfg.OutputDir, out.Width, out.Height, hasher.HashRGB(out, 16), thumbhash.Encode(out))
	computeReferenceMetricsRGB(cfg, src, out, entry)
	writePreview(cfg, registry, outDir, base, rgbToImage(out))
}

func runFractal(src Source, cfg Config, outDir, base string, entry *manifest.Entry, registry *encoder.Registry) {
	gray, _, err := imageio.LoadAny(src.AbsPath, imageio.ModeGray)
	if err != nil {
		entry.Error = err.Error()
		return
	}
	if gray.Width != fractal.Size || gray.Height != fractal.Size {
		entry.Error = fmt.Sprintf("fractal: image must be %dx%d, got %dx%d", fractal.Size, fractal.Size, gray.Width, gray.Height)
		return
	}

	comp, err := fractal.NewCompressor(gray, cfg.Preset.RBlockSize, cfg.Preset.FastMode)
	if err != nil {
		entry.Error = err.Error()
		return
	}
	mappings := comp.Compress()

	binPath := filepath.Join(outDir, base+".bin")
	f, err := os.Create(binPath)
	if err != nil {
		entry.Error = fmt.Sprintf("create %s: %v", binPath, err)
		return
	}
	writeErr := fractal.WriteMappings(f, cfg.Preset.RBlockSize, mappings)
	f.Close()
	if writeErr != nil {
		entry.Error = fmt.Sprintf("write mappings: %v", writeErr)
		return
	}

	decomp, err := fractal.NewDecompressor(mappings, cfg.Preset.RBlockSize, rand.New(rand.NewSource(1)))
	if err != nil {
		entry.Error = err.Error()
		return
	}
	recon := decomp.Decompress(cfg.Iterations, nil)

	bmpPath := filepath.Join(outDir, base+".decompressed.bmp")
	if err := imageio.SaveGrayBMP(bmpPath, recon); err != nil {
		entry.Error = fmt.Sprintf("write reconstruction: %v", err)
		return
	}

	fillCommonFields(entry, src, bmpPath, cfg.OutputDir, recon.Width, recon.Height, hasher.HashGray(recon, 16), thumbhash.EncodeGray(recon))
	if mse, err := metrics.MSE(gray, recon); err == nil {
		psnr := metrics.PSNR(mse)
		entry.MSE = &mse
		entry.PSNR = &psnr
	}
	writePreview(cfg, registry, outDir, base, grayToImage(recon))
}

func runBinarize(src Source, cfg Config, outDir, base string, entry *manifest.Entry, registry *encoder.Registry) {
	gray, _, err := imageio.LoadAny(src.AbsPath, imageio.ModeGray)
	if err != nil {
		entry.Error = err.Error()
		return
	}
	bit, err := binarize.Binarize(gray, cfg.Preset.BinarizeOptions())
	if err != nil {
		entry.Error = err.Error()
		return
	}

	outPath := filepath.Join(outDir, base+".tiff")
	if err := imageio.SaveBilevelTIFF(outPath, bit); err != nil {
		entry.Error = fmt.Sprintf("write output: %v", err)
		return
	}

	preview := bitToGray(bit)
	fillCommonFields(entry, src, outPath, cfg.OutputDir, bit.Width, bit.Height, hasher.HashBit(bit, 16), thumbhash.EncodeGray(preview))
	if refGray, err := loadReferenceGray(cfg, src); err == nil {
		if mse, err := metrics.MSE(gray, refGray); err == nil {
			psnr := metrics.PSNR(mse)
			entry.MSE = &mse
			entry.PSNR = &psnr
		}
	}
	writePreview(cfg, registry, outDir, base, grayToImage(preview))
}

func fillCommonFields(entry *manifest.Entry, src Source, outPath, outRoot string, w, h int, contentHash string, hash []byte) {
	rel, err := filepath.Rel(outRoot, outPath)
	if err != nil {
		rel = outPath
	}
	entry.OutputPath = filepath.ToSlash(rel)
	entry.Width = w
	entry.Height = h
	entry.ContentHash = contentHash
	entry.ThumbHash = base64.StdEncoding.EncodeToString(hash)
}

func computeReferenceMetricsRGB(cfg Config, src Source, out *pixbuf.RGB, entry *manifest.Entry) {
	refGray, err := loadReferenceGray(cfg, src)
	if err != nil {
		return
	}
	outGray := metrics.ToGray(out)
	if mse, err := metrics.MSE(outGray, refGray); err == nil {
		psnr := metrics.PSNR(mse)
		entry.MSE = &mse
		entry.PSNR = &psnr
	}
}

func loadReferenceGray(cfg Config, src Source) (*pixbuf.Gray, error) {
	if cfg.ReferenceDir == "" {
		return nil, fmt.Errorf("no reference directory configured")
	}
	refPath := filepath.Join(cfg.ReferenceDir, src.RelPath)
	gray, _, err := imageio.LoadAny(refPath, imageio.ModeGray)
	return gray, err
}

// writePreview encodes a debug preview of the engine's primary output next
// to the real artifact when batch mode was invoked with --preview, in every
// requested format the registry can actually serve (falling back to PNG,
// always available via the standard library, if none of them are).
func writePreview(cfg Config, registry *encoder.Registry, outDir, base string, img image.Image) {
	if !cfg.Preview {
		return
	}
	formats := cfg.PreviewFormats
	if len(formats) == 0 {
		formats = []string{"png"}
	}
	for _, format := range registry.ResolveFormats(formats) {
		enc := registry.Get(format)
		if enc == nil {
			continue
		}
		data, err := enc.Encode(img, 90)
		if err != nil {
			continue
		}
		_ = os.WriteFile(filepath.Join(outDir, fmt.Sprintf("%s.preview.%s", base, enc.Extension())), data, 0o644)
	}
}

func rgbToImage(img *pixbuf.RGB) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			b, g, r := img.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

func grayToImage(img *pixbuf.Gray) image.Image {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pix)
	return out
}

func bitToGray(img *pixbuf.Bit) *pixbuf.Gray {
	out := pixbuf.NewGray(img.Width, img.Height)
	for i, v := range img.Pix {
		if v != 0 {
			out.Pix[i] = 255
		}
	}
	return out
}
