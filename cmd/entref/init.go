package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ersonp/entref/internal/application/handlers"
	"github.com/ersonp/entref/internal/infrastructure/config"
	"github.com/ersonp/entref/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize an entref project",
		Long:  "Creates a .entref directory with default configuration and an empty build history.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	historyPath := filepath.Join(config.ConfigDir(dir), config.DefaultHistoryFile)
	repo, err := sqlite.NewRepository(config.HistoryConfig{Path: historyPath})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	result, err := handlers.NewInitHandler(repo).Handle(cmd.Context(), dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Build history: %s\n", repo.Path())
	fmt.Fprintln(out, "entref initialized successfully!")

	return nil
}
