// Package sheetql provides a relational-style query builder over spreadsheet
// sheets: select, from, where, insert, update and delete against rows whose
// keys are the sheet's headings.
//
// sheetql reads a sheet once, turns every grid row into a row object keyed by
// heading name and tagged with its sheet position, and writes changes back at
// the smallest useful granularity so untouched cells (including formulas) are
// left alone.
//
// # Features
//
//   - Declarative filters and updates: map[string]any compiled into closures
//   - Strict equality matching: "1" never matches 1, TRUE never matches "TRUE"
//   - Cell-level or whole-row write-back, batch inserts and column fills
//   - Offset-correct deletion of many rows
//   - Excel workbooks (also .xlsx.gz, .xlsx.xz, .xlsx.zst) via XLSXHost
//   - CSV, TSV and LTSV files, plain or compressed, via DelimitedHost
//   - Export of selected rows to CSV, TSV, LTSV, Parquet or XLSX
//   - SQL over selected rows through an in-memory SQLite snapshot
//
// # Basic Usage
//
//	host, err := sheetql.OpenXLSX("tasks.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close()
//
//	q := sheetql.New(host).From("Tasks").Where(map[string]any{"Status": "open"})
//	rows, err := q.Rows(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Mark them done, writing only the Status cells
//	if _, err := q.UpdateRows(ctx, map[string]any{"Status": "done"}); err != nil {
//	    log.Fatal(err)
//	}
//	// Save the workbook and drop cached rows
//	if err := q.ClearCache(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Hosts
//
// A Host supplies sheets; a Sheet supplies range and cell reads and writes.
// MemoryHost keeps grids in memory, XLSXHost wraps an excelize workbook and
// DelimitedHost holds one CSV, TSV or LTSV file as a single sheet named after
// the file. OpenFile picks XLSXHost or DelimitedHost by extension. Any other
// backend (a spreadsheet web API, for example) only needs to implement
// the two interfaces.
//
// # Header Row
//
// Headings come from the header row (row 1 unless From says otherwise). They
// are trimmed, blank headings are skipped, and a heading's column is the grid
// column it sits in. Rows above and including the header row are never
// returned by Rows and never deleted.
//
// # Caching and Commit
//
// The first read materializes the whole sheet and caches it. Every write
// drops the cache. Writes may be buffered by the host: call ClearCache to
// commit them before relying on a read-back.
package sheetql
