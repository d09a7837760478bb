// Command fractal-encode compresses a 256x256 grayscale image into the
// module's affine range/domain-block fractal format.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/S4nh1seR/imgcores/internal/clilog"
	"github.com/S4nh1seR/imgcores/internal/fractal"
	"github.com/S4nh1seR/imgcores/internal/imageio"
	"github.com/S4nh1seR/imgcores/internal/preset"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	verbose    bool
	presetName string
)

var rootCmd = &cobra.Command{
	Use:   "fractal-encode SRC.bmp DST.bin [R] [FastMode]",
	Short: "Compress a 256x256 grayscale image into the fractal codec format",
	Long: `fractal-encode SRC.bmp DST.bin [R ∈ {4,8}] ["FastMode"]

R defaults to the resolved preset's range-block size (4 if no preset is
given). Passing the literal token "FastMode" as the fourth argument enables
the hash-pruned search; any other non-empty fourth argument is accepted but
has no effect.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVar(&presetName, "preset", "", "named parameter preset (default, fast, high-fidelity)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fractal-encode %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	log := clilog.New("fractal-encode", verbose)

	if len(args) < 2 {
		log.Error("usage: fractal-encode SRC.bmp DST.bin [R] [FastMode]")
		return fmt.Errorf("fractal-encode: missing required SRC/DST arguments")
	}
	srcPath, dstPath := args[0], args[1]

	p, ok := preset.Get(presetName)
	if !ok {
		log.Warn("unknown preset %q, falling back to default", presetName)
	}
	rBlock, fastMode := p.RBlockSize, p.FastMode

	if len(args) >= 3 {
		if v, err := strconv.Atoi(args[2]); err == nil {
			rBlock = v
		} else {
			log.Warn("could not parse R argument %q, using %d", args[2], rBlock)
		}
	}
	if len(args) >= 4 && args[3] == "FastMode" {
		fastMode = true
	}

	gray, err := imageio.LoadGray(srcPath)
	if err != nil {
		log.Error("%v", err)
		return err
	}

	start := time.Now()
	comp, err := fractal.NewCompressor(gray, rBlock, fastMode)
	if err != nil {
		log.Error("%v", err)
		return err
	}
	mappings := comp.Compress()

	f, err := os.Create(dstPath)
	if err != nil {
		log.Error("create %s: %v", dstPath, err)
		return err
	}
	defer f.Close()
	if err := fractal.WriteMappings(f, rBlock, mappings); err != nil {
		log.Error("write %s: %v", dstPath, err)
		return err
	}

	log.Info("wrote %s (R=%d, fastMode=%v, %d mappings) in %s",
		dstPath, rBlock, fastMode, len(mappings), time.Since(start).Round(time.Millisecond))
	return nil
}
