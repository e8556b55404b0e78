package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/entref/internal/application/handlers"
)

type buildFlags struct {
	overrides
	dryRun bool
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch definitions and write both reference tables",
		Long: `Fetches the named character reference definitions, splits them into the
base and full groups, and writes one properties file per group. Nothing is
written unless both tables compile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.sourceURL, "source", "s", "", "Definition URL (overrides config)")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Read definitions from a local JSON file instead of the URL")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "Output directory (overrides config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compile without writing tables or history")
	cmd.MarkFlagsMutuallyExclusive("source", "input")

	return cmd
}

func runBuild(cmd *cobra.Command, flags buildFlags) error {
	o := flags.overrides
	o.history = historyCreate
	if flags.dryRun {
		o.history = historyNone
	}

	return withDeps(cmd, o, func(deps *Deps) error {
		result, err := deps.BuildHandler.Handle(cmd.Context(), handlers.BuildOptions{
			DryRun: flags.dryRun,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Full size: %d, base size: %d\n", result.FullSize, result.BaseSize)

		if result.DryRun {
			fmt.Fprintln(out, "[DRY RUN] No tables written")
			return nil
		}

		for _, a := range result.Artifacts {
			fmt.Fprintf(out, "Wrote %s (%d references)\n", a.Path, a.Records)
		}
		fmt.Fprintf(out, "Build %s\n", result.BuildID)
		return nil
	})
}
