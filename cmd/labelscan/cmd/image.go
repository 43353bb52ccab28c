package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/scan"
	"github.com/MeKo-Tech/labelscan/internal/sink"
	"github.com/MeKo-Tech/labelscan/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// fileResult pairs an input path with its decode outcome for reporting.
type fileResult struct {
	File    string        `json:"file"`
	Found   bool          `json:"found"`
	Reading *scan.Reading `json:"reading,omitempty"`
}

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Decode barcodes or label text from image files",
	Long: `Decode one or more image files. Each file runs through the full
enhancement ladder: fast barcode decoders on the raw image, then enhanced
variants of the auto-cropped and deskewed label region, then OCR on a
localized region (when built with -tags=ocr_tesseract).

Supported formats: JPEG, PNG, BMP

Results are reported for every input. The exit status is non-zero when any
file produced no result, so batch callers can detect partial failures.

Examples:
  labelscan image photo.jpg
  labelscan image *.png --format json
  labelscan image crate-label.jpg --format csv --output readings.csv`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}
		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		scanCfg, err := cfg.ScanConfig()
		if err != nil {
			return err
		}
		ocr, err := engine.NewOCR()
		if err != nil {
			return fmt.Errorf("initialize OCR engine: %w", err)
		}
		defer func() { _ = ocr.Close() }()

		oneShot, err := scan.NewOneShot(scanCfg,
			engine.NewPrimaryBarcodeDecoder(), engine.NewSecondaryBarcodeDecoder(), ocr)
		if err != nil {
			return err
		}

		results := make([]fileResult, 0, len(args))
		misses := 0
		for _, path := range args {
			img, err := utils.LoadImage(path)
			if err != nil {
				return err
			}
			reading, err := oneShot.Decode(cmd.Context(), img)
			if err != nil {
				return err
			}
			if reading == nil {
				misses++
			}
			results = append(results, fileResult{File: path, Found: reading != nil, Reading: reading})
		}

		if err := writeResults(cmd, results, format, outputFile); err != nil {
			return err
		}
		if misses > 0 {
			return fmt.Errorf("no result for %d of %d input file(s)", misses, len(results))
		}
		return nil
	},
}

func writeResults(cmd *cobra.Command, results []fileResult, format, outputFile string) error {
	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile) //nolint:gosec // G304: user-chosen output path is expected
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case outputFormatCSV:
		cs := sink.NewCSV(out)
		if err := cs.WriteHeader(); err != nil {
			return err
		}
		for _, r := range results {
			if r.Reading == nil {
				continue
			}
			if err := cs.Append(*r.Reading); err != nil {
				return err
			}
		}
		return nil
	case outputFormatText:
		for _, r := range results {
			if r.Reading != nil {
				fmt.Fprintf(out, "%s: %s (%s)\n", r.File, r.Reading.Value, r.Reading.SourceTag)
			} else {
				fmt.Fprintf(out, "%s: no result\n", r.File)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().String("format", "text", "output format (text, json, csv)")
	imageCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
}
