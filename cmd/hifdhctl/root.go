package main

import (
	"github.com/spf13/cobra"

	"github.com/aliskhannn/hifdh-bot/internal/config"
	"github.com/aliskhannn/hifdh-bot/internal/repository"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hifdhctl",
		Short:         "Manage the verse database of the hifdh bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("verses", "", "Path to the SQLite verse database (overrides verses_db_path)")
	root.PersistentFlags().String("surahs", "", "Path to the surah catalog JSON (overrides surahs_json_path)")

	root.AddCommand(newImportCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newVerseCmd())

	return root
}

// resolvePaths returns the verse database and catalog paths: flags first, then config.
func resolvePaths(cmd *cobra.Command) (versesPath, surahsPath string, err error) {
	cfg, err := config.Load()
	if err != nil {
		return "", "", err
	}

	versesPath = cfg.VersesDBPath
	if p, _ := cmd.Flags().GetString("verses"); p != "" {
		versesPath = p
	}

	surahsPath = cfg.SurahsJSONPath
	if p, _ := cmd.Flags().GetString("surahs"); p != "" {
		surahsPath = p
	}

	return versesPath, surahsPath, nil
}

func openVerses(cmd *cobra.Command) (*repository.VerseRepository, error) {
	versesPath, _, err := resolvePaths(cmd)
	if err != nil {
		return nil, err
	}
	return repository.OpenVerseRepository(cmd.Context(), versesPath)
}

func openCatalog(cmd *cobra.Command) (*repository.SurahRepository, error) {
	_, surahsPath, err := resolvePaths(cmd)
	if err != nil {
		return nil, err
	}
	return repository.NewSurahRepository(surahsPath)
}
