package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/nao1215/sheetql"
	"github.com/spf13/cobra"
)

const (
	envFile  = "SHEETQL_FILE"
	envSheet = "SHEETQL_SHEET"
)

// options holds the global flags shared by every command
type options struct {
	file      string
	sheet     string
	headerRow int
	where     []string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sheetql",
		Short: "Query and edit spreadsheet rows by heading",
		Long: `sheetql treats one sheet of an Excel workbook, or a CSV, TSV or LTSV file,
as a table whose columns are the headings in its header row. Rows are
selected with --where and can be listed, exported, updated or deleted.

Values in key=value pairs are text. Use key:=json for typed values, for
example Age:=30, Active:=true or Note:=null.

Example:
  sheetql --file tasks.xlsx --sheet Tasks --where Status=open rows
  sheetql --file tasks.xlsx --sheet Tasks --where Owner=bo update --set Status=done`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", os.Getenv(envFile), "Sheet file: .xlsx, .csv, .tsv or .ltsv, optionally .gz, .bz2, .xz or .zst [$"+envFile+"]")
	flags.StringVarP(&opts.sheet, "sheet", "s", os.Getenv(envSheet), "Sheet name, defaults to the file name for delimited files [$"+envSheet+"]")
	flags.IntVar(&opts.headerRow, "header-row", sheetql.DefaultHeaderRow, "1-based row holding the headings")
	flags.StringArrayVarP(&opts.where, "where", "w", nil, "Row filter key=value or key:=json (repeatable, all must match)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log reads and writes to stderr")

	cmd.AddCommand(
		newHeadingsCmd(opts),
		newRowsCmd(opts),
		newValuesCmd(opts),
		newDumpCmd(opts),
		newInsertCmd(opts),
		newUpdateCmd(opts),
		newSetColumnCmd(opts),
		newDeleteCmd(opts),
	)
	return cmd
}

// withQuery opens the sheet file, builds a query for the selected sheet and
// runs fn. The file is closed afterwards; fn commits if it wrote.
func withQuery(cmd *cobra.Command, opts *options, fn func(ctx context.Context, q *sheetql.Query) error) error {
	if opts.file == "" {
		return errors.New("no file given: use --file or " + envFile)
	}
	where, err := parseAssignments(opts.where)
	if err != nil {
		return err
	}

	host, err := sheetql.OpenFile(opts.file)
	if err != nil {
		return err
	}
	defer host.Close()

	sheet := opts.sheet
	if d, ok := host.(*sheetql.DelimitedHost); ok && sheet == "" {
		sheet = d.SheetName()
	}
	if sheet == "" {
		return errors.New("no sheet given: use --sheet or " + envSheet)
	}

	q := sheetql.New(host, sheetql.WithLogger(newLogger(cmd, opts.verbose))).
		From(sheet, opts.headerRow)
	if len(where) > 0 {
		q = q.Where(where)
	}
	if err := q.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, q)
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
