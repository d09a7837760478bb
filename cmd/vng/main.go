// Command vng reconstructs a full-color image from a Bayer CFA mosaic via
// variable-number-of-gradients interpolation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/S4nh1seR/imgcores/internal/clilog"
	"github.com/S4nh1seR/imgcores/internal/imageio"
	"github.com/S4nh1seR/imgcores/internal/metrics"
	"github.com/S4nh1seR/imgcores/internal/vng"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	verbose    bool
	presetName string
)

var rootCmd = &cobra.Command{
	Use:   "vng",
	Short: "Variable Number of Gradients Bayer demosaicer",
	Long: `vng reads a single-channel CFA mosaic from ./source_images/CFA.bmp,
reconstructs a full-color image via variable-number-of-gradients
interpolation, and writes it to ./recovered.bmp. If
./source_images/Original.bmp is present it is used as a reference for the
reported MSE/PSNR.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVar(&presetName, "preset", "", "named parameter preset (accepted for CLI contract uniformity; this engine has no tunable parameters)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"vng %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	log := clilog.New("vng", verbose)
	if presetName != "" {
		log.Warn("preset %q ignored: vng has no tunable parameters", presetName)
	}

	cfaPath := filepath.Join("source_images", "CFA.bmp")
	origPath := filepath.Join("source_images", "Original.bmp")
	const outPath = "recovered.bmp"

	start := time.Now()
	cfa, err := imageio.LoadGray(cfaPath)
	if err != nil {
		log.Error("%v", err)
		return err
	}

	out, err := vng.Recover(cfa)
	if err != nil {
		log.Error("%v", err)
		return err
	}

	if err := imageio.SaveColorBMP(outPath, out); err != nil {
		log.Error("write %s: %v", outPath, err)
		return err
	}
	log.Info("wrote %s in %s", outPath, time.Since(start).Round(time.Millisecond))

	ref, err := imageio.LoadColor(origPath)
	if err != nil {
		log.Verbose("no reference at %s, skipping metrics", origPath)
		return nil
	}

	outGray := metrics.ToGray(out)
	refGray := metrics.ToGray(ref)
	if mse, err := metrics.MSE(outGray, refGray); err == nil {
		log.Info("MSE=%.4f PSNR=%.2fdB", mse, metrics.PSNR(mse))
	}
	if mseCut, err := metrics.MSECutted(outGray, refGray); err == nil {
		log.Info("MSE(interior)=%.4f PSNR(interior)=%.2fdB", mseCut, metrics.PSNR(mseCut))
	}
	return nil
}
