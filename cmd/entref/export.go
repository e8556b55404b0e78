package main

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/entref/internal/domain/entities"
	"github.com/ersonp/entref/internal/infrastructure/artifacts"
)

type exportFlags struct {
	format string
	output string
	group  string
	order  string
}

type exporter struct {
	format string
	output string
	out    io.Writer
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a written table",
		Long:  "Exports one reference table to JSON, CSV, or markdown format.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.group, "group", "g", string(entities.GroupFull), "Table to export (base, full)")
	cmd.Flags().StringVar(&flags.order, "order", "name", "Record order (name, code)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	group := entities.Group(flags.group)
	if !group.IsValid() {
		return fmt.Errorf("invalid group %q, valid groups: [%s %s]", flags.group, entities.GroupBase, entities.GroupFull)
	}

	if !slices.Contains(validOrders, flags.order) {
		return fmt.Errorf("invalid order %q, valid orders: %v", flags.order, validOrders)
	}

	return withStore(cmd, func(store *artifacts.Store) error {
		tables, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}

		t := tables.Full
		if group == entities.GroupBase {
			t = tables.Base
		}
		if flags.order == "code" {
			t = byCodeIndex(t)
		}

		e := &exporter{
			format: flags.format,
			output: flags.output,
			out:    cmd.OutOrStdout(),
		}
		return e.export(t)
	})
}

// byCodeIndex returns a copy of t ordered by code index.
func byCodeIndex(t entities.Table) entities.Table {
	records := slices.Clone(t.Records)
	slices.SortFunc(records, func(a, b *entities.Record) int {
		return cmp.Compare(a.CodeIndex, b.CodeIndex)
	})
	return entities.Table{Group: t.Group, Records: records}
}

func (e *exporter) export(t entities.Table) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = e.out
	}

	if err := e.formatTable(w, t); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Fprintf(e.out, "Exported %d %s references to %s\n", t.Len(), t.Group, e.output)
	}

	return nil
}

func (e *exporter) formatTable(w io.Writer, t entities.Table) error {
	switch e.format {
	case "json":
		return formatJSON(w, t)
	case "csv":
		return formatCSV(w, t)
	case "markdown":
		return formatMarkdown(w, t)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

func formatJSON(w io.Writer, t entities.Table) error {
	type exportRecord struct {
		Name       string `json:"name"`
		Codepoints []int  `json:"codepoints"`
		Characters string `json:"characters"`
		CodeIndex  int    `json:"code_index"`
	}

	records := make([]exportRecord, 0, t.Len())
	for _, r := range t.Records {
		cps := make([]int, len(r.Codepoints))
		for i, cp := range r.Codepoints {
			cps[i] = int(cp)
		}
		records = append(records, exportRecord{
			Name:       r.Name,
			Codepoints: cps,
			Characters: string(r.Codepoints),
			CodeIndex:  r.CodeIndex,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, t entities.Table) error {
	writer := csv.NewWriter(w)

	header := []string{"name", "codepoints", "code_index"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range t.Records {
		row := []string{
			r.Name,
			joinCodepoints(r.Codepoints, " "),
			strconv.Itoa(r.CodeIndex),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, t entities.Table) error {
	if _, err := fmt.Fprintf(w, "# %s references\n\nTotal: %d references\n\n", strings.ToUpper(string(t.Group)), t.Len()); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Name | Codepoints | Code index |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|------------|------------|\n"); err != nil {
		return err
	}

	for _, r := range t.Records {
		if _, err := fmt.Fprintf(w, "| `%s` | %s | %d |\n",
			r.Name,
			formatCodepoints(r.Codepoints),
			r.CodeIndex,
		); err != nil {
			return err
		}
	}

	return nil
}

func joinCodepoints(cps []rune, sep string) string {
	parts := make([]string, len(cps))
	for i, cp := range cps {
		parts[i] = strconv.Itoa(int(cp))
	}
	return strings.Join(parts, sep)
}

// formatCodepoints renders U+XXXX notation.
func formatCodepoints(cps []rune) string {
	parts := make([]string, len(cps))
	for i, cp := range cps {
		parts[i] = fmt.Sprintf("U+%04X", cp)
	}
	return strings.Join(parts, " ")
}
