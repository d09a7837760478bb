// Command fractal-decode iterates a compressed fractal mapping table to its
// attractor image.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/S4nh1seR/imgcores/internal/clilog"
	"github.com/S4nh1seR/imgcores/internal/fractal"
	"github.com/S4nh1seR/imgcores/internal/imageio"
	"github.com/S4nh1seR/imgcores/internal/metrics"
	"github.com/S4nh1seR/imgcores/internal/pixbuf"
	"github.com/spf13/cobra"
)

const version = "0.1.0"
const defaultIterations = 8

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fractal-decode SRC.bin OUT_PREFIX [REFERENCE.bmp] [INTERMEDIATE_DIR] [ITERATIONS]",
	Short: "Decompress a fractal mapping table to its attractor image",
	Long: `fractal-decode SRC.bin OUT_PREFIX [REFERENCE.bmp] [INTERMEDIATE_DIR] [ITERATIONS]

Writes OUT_PREFIX.bmp. If REFERENCE.bmp is given, also writes
OUT_PREFIX.txt with the MSE and PSNR against it. If INTERMEDIATE_DIR is
given, writes result_{i}.bmp for every iteration, plus metrics_{i}.txt
when a reference was loaded.
ITERATIONS defaults to 8.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	// --preset is accepted for CLI contract uniformity; the decompressor has
	// no tunable parameters beyond the iteration count, which is positional.
	rootCmd.Flags().String("preset", "", "named parameter preset (unused by this engine)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fractal-decode %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	log := clilog.New("fractal-decode", verbose)

	if len(args) < 2 {
		log.Error("usage: fractal-decode SRC.bin OUT_PREFIX [REFERENCE.bmp] [INTERMEDIATE_DIR] [ITERATIONS]")
		return fmt.Errorf("fractal-decode: missing required SRC/OUT_PREFIX arguments")
	}
	srcPath, outPrefix := args[0], args[1]

	var referencePath, intermediateDir string
	iterations := defaultIterations
	if len(args) >= 3 {
		referencePath = args[2]
	}
	if len(args) >= 4 {
		intermediateDir = args[3]
	}
	if len(args) >= 5 {
		if v, err := strconv.Atoi(args[4]); err == nil && v > 0 {
			iterations = v
		} else {
			log.Warn("could not parse ITERATIONS argument %q, using %d", args[4], iterations)
		}
	}

	f, err := os.Open(srcPath)
	if err != nil {
		log.Error("%v", err)
		return err
	}
	rBlock, mappings, err := fractal.ReadMappings(f)
	f.Close()
	if err != nil {
		log.Error("%v", err)
		return err
	}

	var reference *pixbuf.Gray
	if referencePath != "" {
		reference, err = imageio.LoadGray(referencePath)
		if err != nil {
			log.Warn("could not load reference %s: %v", referencePath, err)
			reference = nil
		}
	}

	if intermediateDir != "" {
		if err := os.MkdirAll(intermediateDir, 0o755); err != nil {
			log.Warn("could not create intermediate dir %s: %v", intermediateDir, err)
			intermediateDir = ""
		}
	}

	decomp, err := fractal.NewDecompressor(mappings, rBlock, rand.New(rand.NewSource(1)))
	if err != nil {
		log.Error("%v", err)
		return err
	}

	start := time.Now()
	var observe fractal.IterationObserver
	if intermediateDir != "" {
		observe = func(iteration int, img *pixbuf.Gray) {
			bmpPath := filepath.Join(intermediateDir, fmt.Sprintf("result_%d.bmp", iteration))
			if err := imageio.SaveGrayBMP(bmpPath, img); err != nil {
				log.Warn("intermediate dump %s: %v", bmpPath, err)
				return
			}
			if reference != nil {
				writeMetricsFile(filepath.Join(intermediateDir, fmt.Sprintf("metrics_%d.txt", iteration)), img, reference, log)
			}
		}
	}

	out := decomp.Decompress(iterations, observe)
	elapsed := time.Since(start)

	outPath := outPrefix + ".bmp"
	if err := imageio.SaveGrayBMP(outPath, out); err != nil {
		log.Error("write %s: %v", outPath, err)
		return err
	}
	log.Info("wrote %s (R=%d, %d iterations) in %s", outPath, rBlock, iterations, elapsed.Round(time.Millisecond))

	if reference != nil {
		writeMetricsFile(outPrefix+".txt", out, reference, log)
	}
	return nil
}

func writeMetricsFile(path string, out, reference *pixbuf.Gray, log *clilog.Logger) {
	mse, err := metrics.MSE(out, reference)
	if err != nil {
		log.Warn("metrics for %s: %v", path, err)
		return
	}
	psnr := metrics.PSNR(mse)
	content := fmt.Sprintf("%.6f\n%.6f\n", mse, psnr)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Warn("write %s: %v", path, err)
	}
}
