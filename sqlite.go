package sheetql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nao1215/sheetql/domain/model"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// OpenDB loads the selected data rows into an in-memory SQLite database and
// returns it. The table is named after the sanitized sheet name and holds the
// projected columns (every heading without Select), typed by inference.
// The snapshot is detached: later writes to the sheet are not reflected.
//
// Example:
//
//	db, err := sheetql.New(host).From("Orders").OpenDB(ctx)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//	row := db.QueryRowContext(ctx, "SELECT SUM(Amount) FROM Orders")
func (q *Query) OpenDB(ctx context.Context) (*sql.DB, error) {
	t, err := q.snapshot(ctx, "open db")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, NewErrorContext("open db", q.sheetName).Error(err)
	}
	// Every pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	if err := loadTable(ctx, db, t); err != nil {
		_ = db.Close()
		return nil, NewErrorContext("open db", q.sheetName).Error(err)
	}
	return db, nil
}

func loadTable(ctx context.Context, db *sql.DB, t *table) error {
	if _, err := db.ExecContext(ctx, buildCreateTableQuery(t)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.name, err)
	}
	if len(t.rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(t))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range t.rows {
		values := t.record(i)
		args := make([]any, len(values))
		for j, v := range values {
			args[j] = sqlValue(t.columnInfo[j].Type, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert row %d: %w", t.rows[i].Meta.Row, err)
		}
	}
	return tx.Commit()
}

// buildCreateTableQuery constructs a CREATE TABLE query for the given table
func buildCreateTableQuery(t *table) string {
	columns := make([]string, 0, len(t.columnInfo))
	for _, info := range t.columnInfo {
		columns = append(columns, quoteIdent(info.Name)+" "+info.Type.String())
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`, quoteIdent(t.name), strings.Join(columns, ", "))
}

// buildInsertQuery constructs an INSERT query for the given table
func buildInsertQuery(t *table) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(t.name), placeholders)
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlValue converts a cell to the driver value stored for its column type.
func sqlValue(ct model.ColumnType, v model.Value) any {
	if model.IsBlank(v) {
		return nil
	}
	switch ct {
	case model.ColumnTypeInteger:
		if n, ok := toFloat(v); ok {
			return int64(n)
		}
	case model.ColumnTypeReal:
		if n, ok := toFloat(v); ok {
			return n
		}
	case model.ColumnTypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return int64(1)
			}
			return int64(0)
		}
	}
	return model.String(v)
}
