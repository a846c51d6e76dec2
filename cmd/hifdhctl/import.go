package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/hifdh-bot/internal/importer"
)

func newImportCmd() *cobra.Command {
	var (
		sheet      string
		skipHeader bool
		batchSize  int
	)

	cmd := &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Import verses from a spreadsheet (surah | ayah | text | translation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verses, err := openVerses(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = verses.Close() }()

			result, err := importer.ImportXLSX(cmd.Context(), args[0], importer.Options{
				Sheet:      sheet,
				SkipHeader: skipHeader,
				BatchSize:  batchSize,
			}, verses)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rowErr := range result.Errors {
				fmt.Fprintln(out, rowErr.Error())
			}
			fmt.Fprintf(out, "processed %d rows, imported %d verses, %d errors\n",
				result.Processed, result.Imported, len(result.Errors))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (defaults to the first sheet)")
	cmd.Flags().BoolVar(&skipHeader, "skip-header", true, "Skip the first row")
	cmd.Flags().IntVar(&batchSize, "batch", 500, "Verses per transaction")

	return cmd
}
