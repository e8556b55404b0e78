package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/domain/services"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [build-id]",
		Short: "List recent builds",
		Long: `Lists recorded builds, newest first, with reference counts and table digests.
Given a build ID or a unique prefix of one, shows that build in full.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runHistoryShow(cmd, args[0])
			}
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", services.DefaultHistoryLimit, "Maximum number of builds to display")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	return withDeps(cmd, overrides{history: historyIfExists}, func(deps *Deps) error {
		result, err := deps.HistoryHandler.Handle(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Builds) == 0 {
			fmt.Fprintln(out, "No builds recorded.")
			return nil
		}

		renderBuilds(out, result.Builds)
		fmt.Fprintf(out, "Showing %d of %d builds\n", len(result.Builds), result.Total)
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, id string) error {
	return withDeps(cmd, overrides{history: historyIfExists}, func(deps *Deps) error {
		build, err := deps.HistoryHandler.HandleShow(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Build:       %s\n", build.ID)
		fmt.Fprintf(out, "Created:     %s\n", build.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Source:      %s\n", build.Source)
		fmt.Fprintf(out, "Output:      %s\n", build.OutputDir)
		fmt.Fprintf(out, "Full:        %d references\n", build.FullCount)
		fmt.Fprintf(out, "Base:        %d references\n", build.BaseCount)
		fmt.Fprintf(out, "Full digest: %s\n", build.FullDigest)
		fmt.Fprintf(out, "Base digest: %s\n", build.BaseDigest)
		return nil
	})
}

func renderBuilds(w io.Writer, builds []entities.Build) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Build", "Created", "Full", "Base", "Full digest", "Base digest", "Source"})
	for _, b := range builds {
		t.AppendRow(table.Row{
			truncate(b.ID, ShortIDLength),
			b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			b.FullCount,
			b.BaseCount,
			truncate(b.FullDigest, ShortDigestLength),
			truncate(b.BaseDigest, ShortDigestLength),
			b.Source,
		})
	}

	t.Render()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
