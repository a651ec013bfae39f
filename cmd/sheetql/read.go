package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nao1215/sheetql"
	"github.com/nao1215/sheetql/domain/model"
	"github.com/spf13/cobra"
)

func newHeadingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "headings",
		Short: "Print the headings of the header row, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				headings, err := q.Headings(ctx)
				if err != nil {
					return err
				}
				for _, h := range headings {
					fmt.Fprintln(cmd.OutOrStdout(), h)
				}
				return nil
			})
		},
	}
}

// rowRecord is the JSON shape printed by the rows command
type rowRecord struct {
	Row    int                    `json:"row"`
	Fields map[string]model.Value `json:"fields"`
}

func newRowsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "Print the selected rows as JSON lines",
		Long: `Print every data row matching --where as one JSON object per line, with
its 1-based sheet row number.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				rows, err := q.Rows(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, r := range rows {
					if err := enc.Encode(rowRecord{Row: r.Meta.Row, Fields: r.Fields}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newValuesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "values <column>",
		Short: "Print one column of the selected rows, one value per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				values, err := q.Values(ctx, args[0])
				if err != nil {
					return err
				}
				for _, v := range values {
					fmt.Fprintln(cmd.OutOrStdout(), model.String(v))
				}
				return nil
			})
		},
	}
}

func newDumpCmd(opts *options) *cobra.Command {
	var (
		format      string
		compression string
		outDir      string
		columns     []string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export the selected rows",
		Long: `Export the rows matching --where as CSV, TSV, LTSV, Parquet or XLSX.

Without --out the export is written to stdout. With --out it is written to
<out>/<sheet>.<format>[.<compression>] and the path is printed.

Example:
  sheetql --file tasks.xlsx --sheet Tasks dump --format parquet --compression zstd --out ./export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, ok := sheetql.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q: use csv, tsv, ltsv, parquet or xlsx", format)
			}
			c, ok := sheetql.ParseCompressionType(compression)
			if !ok {
				return fmt.Errorf("unknown compression %q: use none, gz, xz or zstd", compression)
			}
			dumpOpts := sheetql.NewDumpOptions().WithFormat(f).WithCompression(c)

			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				q = q.Select(columns...)
				if outDir == "" {
					return q.Dump(ctx, cmd.OutOrStdout(), dumpOpts)
				}
				path, err := q.DumpFile(ctx, outDir, dumpOpts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", sheetql.OutputFormatCSV.String(), "Output format: csv|tsv|ltsv|parquet|xlsx")
	cmd.Flags().StringVar(&compression, "compression", sheetql.CompressionNone.String(), "Output compression: none|gz|xz|zstd")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: stdout)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to export, comma separated (default: all headings)")
	return cmd
}
