package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"
	"github.com/aliskhannn/hifdh-bot/internal/service"
)

func newPlanCmd() *cobra.Command {
	var surahNumber int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the memorization plan of a surah and check its verses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			catalog, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			surah, err := service.NewSurahService(catalog).GetByNumber(ctx, surahNumber)
			if err != nil {
				return err
			}

			verses, err := openVerses(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = verses.Close() }()

			stored, err := verses.CountVerses(ctx, surahNumber)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d. %s (%s), %d ayahs, %d stored\n",
				surah.Number, surah.Name, surah.ArabicName, surah.AyahCount, stored)
			if stored != surah.AyahCount {
				fmt.Fprintln(out, "warning: stored verse count differs from the catalog")
			}

			for _, t := range service.BuildPlan(*surah, nil) {
				if t.Type == entities.TaskTest {
					fmt.Fprintf(out, "  test  %d-%d\n", t.FromAyah, t.ToAyah)
					continue
				}
				fmt.Fprintf(out, "  ayah  %d\n", t.FromAyah)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&surahNumber, "surah", 0, "Surah number (1-114)")
	_ = cmd.MarkFlagRequired("surah")

	return cmd
}
