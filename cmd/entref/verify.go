package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the written tables",
		Long: `Reads both properties files back and checks that names are sorted, that
code indexes are a permutation of 0..N-1, and that each code index matches
the record's position in codepoint order. When a build into the same
directory is recorded, the files must also match its digests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory holding the tables (overrides config)")

	return cmd
}

func runVerify(cmd *cobra.Command, outputDir string) error {
	o := overrides{outputDir: outputDir, history: historyIfExists}
	return withDeps(cmd, o, func(deps *Deps) error {
		report, err := deps.VerifyHandler.Handle(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "OK: full %d references, base %d references\n", report.FullCount, report.BaseCount)
		if report.BuildID != "" {
			fmt.Fprintf(out, "Matches build %s\n", truncate(report.BuildID, ShortIDLength))
		}
		return nil
	})
}
