package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelscan/internal/engine"
	"github.com/MeKo-Tech/labelscan/internal/pdfscan"
	"github.com/MeKo-Tech/labelscan/internal/scan"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Decode barcodes from images embedded in a PDF",
	Long: `Extract the raster images embedded in a PDF (scanned delivery notes,
packing lists) and run each through the single-shot decode ladder.

Examples:
  labelscan pdf delivery-note.pdf
  labelscan pdf batch.pdf --pages 1-5`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		pages, _ := cmd.Flags().GetString("pages")

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

		pageImages, err := pdfscan.ExtractImages(args[0], pages)
		if err != nil {
			return err
		}
		if len(pageImages) == 0 {
			return errors.New("no embedded images found in PDF")
		}

		pageNums := make([]int, 0, len(pageImages))
		for p := range pageImages {
			pageNums = append(pageNums, p)
		}
		sort.Ints(pageNums)

		found := 0
		for _, page := range pageNums {
			for i, img := range pageImages[page] {
				reading, err := oneShot.Decode(cmd.Context(), img)
				if err != nil {
					return err
				}
				if reading == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "page %d image %d: no result\n", page, i+1)
					continue
				}
				found++
				fmt.Fprintf(cmd.OutOrStdout(), "page %d image %d: %s (%s)\n",
					page, i+1, reading.Value, reading.SourceTag)
			}
		}
		if found == 0 {
			return errors.New("no result: every decode pass was exhausted")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().String("pages", "", "page selection, e.g. \"1-5\" or \"1,3,7\" (default all)")
}
