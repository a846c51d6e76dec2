package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/hifdh-bot/internal/service"
)

func newVerseCmd() *cobra.Command {
	var (
		surah, ayah int
		quiz        bool
	)

	cmd := &cobra.Command{
		Use:   "verse",
		Short: "Print a verse, optionally with the recall test anchored at it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			verses, err := openVerses(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = verses.Close() }()

			v, err := verses.GetVerse(ctx, surah, ayah)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", v.Key(), v.Text)
			if v.Translation != "" {
				fmt.Fprintf(out, "    %s\n", v.Translation)
			}

			if !quiz {
				return nil
			}

			q, err := service.NewQuizGenerator(verses, nil).BuildAt(ctx, surah, ayah)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "next ayah?")
			for i, opt := range q.Options {
				mark := " "
				if q.IsCorrect(i) {
					mark = "*"
				}
				fmt.Fprintf(out, " %s %d) %s %s\n", mark, i+1, opt.Key(), opt.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&surah, "surah", 0, "Surah number")
	cmd.Flags().IntVar(&ayah, "ayah", 0, "Ayah number")
	cmd.Flags().BoolVar(&quiz, "quiz", false, "Also build the recall test anchored at this ayah")
	_ = cmd.MarkFlagRequired("surah")
	_ = cmd.MarkFlagRequired("ayah")

	return cmd
}
