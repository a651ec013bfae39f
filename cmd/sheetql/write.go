package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/sheetql"
	"github.com/nao1215/sheetql/domain/model"
	"github.com/spf13/cobra"
)

// commit saves the workbook and reports how many rows or cells changed.
func commit(ctx context.Context, cmd *cobra.Command, q *sheetql.Query, n int, what string) error {
	if n > 0 {
		if err := q.ClearCache(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", n, what)
	return nil
}

func newInsertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "insert key=value...",
		Short: "Append one row after the last used row",
		Long: `Append one row. Keys that are not headings are ignored; headings without
a value are left blank.

Example:
  sheetql --file tasks.xlsx --sheet Tasks insert Title="Ship it" Status=open Points:=3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args)
			if err != nil {
				return err
			}
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				n, err := q.InsertRows(ctx, model.NewRow(fields))
				if err != nil {
					return err
				}
				return commit(ctx, cmd, q, n, "rows inserted")
			})
		},
	}
}

func newUpdateCmd(opts *options) *cobra.Command {
	var (
		set     []string
		strict  bool
		fullRow bool
	)

	cmd := &cobra.Command{
		Use:   "update --set key=value...",
		Short: "Assign values to every selected row",
		Long: `Assign the --set values to every row matching --where. Only the cells whose
values change are written unless --full-row is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(set) == 0 {
				return errors.New("nothing to update: give at least one --set key=value")
			}
			fields, err := parseAssignments(set)
			if err != nil {
				return err
			}
			var updateOpts []sheetql.UpdateOption
			if strict {
				updateOpts = append(updateOpts, sheetql.Strict())
			}
			if fullRow {
				updateOpts = append(updateOpts, sheetql.FullRow())
			}

			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				n, err := q.UpdateRows(ctx, fields, updateOpts...)
				if err != nil {
					return err
				}
				return commit(ctx, cmd, q, n, "rows updated")
			})
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Assignment key=value or key:=json (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when no row matches")
	cmd.Flags().BoolVar(&fullRow, "full-row", false, "Rewrite whole rows instead of changed cells")
	return cmd
}

func newSetColumnCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-column <column> <value>",
		Short: "Write one value into every data row of a column",
		Long: `Write one value into every data row of a column, ignoring --where.
Prefix the value with := to give it as JSON, e.g. set-column Score :=0.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := any(args[1])
			if raw, ok := strings.CutPrefix(args[1], ":="); ok {
				_, v, err := parseAssignment(args[0] + ":=" + raw)
				if err != nil {
					return err
				}
				value = v
			}
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				n, err := q.SetColumnValues(ctx, args[0], value)
				if err != nil {
					return err
				}
				return commit(ctx, cmd, q, n, "cells written")
			})
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete every selected row",
		Long: `Delete every data row matching --where. Without --where all data rows are
deleted; the header row is always kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withQuery(cmd, opts, func(ctx context.Context, q *sheetql.Query) error {
				n, err := q.DeleteRows(ctx)
				if err != nil {
					if n > 0 {
						// keep the rows already removed
						err = errors.Join(err, q.ClearCache(ctx))
					}
					return err
				}
				return commit(ctx, cmd, q, n, "rows deleted")
			})
		},
	}
}
