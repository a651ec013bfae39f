package sheetql_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nao1215/sheetql"
	"github.com/nao1215/sheetql/domain/model"
)

func tasks() *sheetql.MemoryHost {
	return sheetql.NewMemoryHost().AddSheet("Tasks", model.Grid{
		{"Title", "Status", "Owner"},
		{"Write docs", "open", "ann"},
		{"Fix bug", "done", "bo"},
		{"Review", "open", "bo"},
	})
}

// ExampleQuery_Rows demonstrates reading rows that match a filter
func ExampleQuery_Rows() {
	ctx := context.Background()

	rows, err := sheetql.New(tasks()).
		From("Tasks").
		Where(map[string]any{"Status": "open"}).
		Rows(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range rows {
		fmt.Printf("row %d: %v (%v)\n", r.Meta.Row, r.Fields["Title"], r.Fields["Owner"])
	}

	// Output:
	// row 2: Write docs (ann)
	// row 4: Review (bo)
}

// ExampleQuery_UpdateRows demonstrates a declarative update
func ExampleQuery_UpdateRows() {
	ctx := context.Background()
	host := tasks()

	q := sheetql.New(host).From("Tasks").Where(map[string]any{"Owner": "bo"})
	n, err := q.UpdateRows(ctx, map[string]any{"Status": "done"})
	if err != nil {
		log.Fatal(err)
	}
	if err := q.ClearCache(ctx); err != nil {
		log.Fatal(err)
	}

	values, err := sheetql.New(host).From("Tasks").Values(ctx, "Status")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(n, values)

	// Output:
	// 2 [open done done]
}

// ExampleQuery_DeleteRows demonstrates deleting every matching row
func ExampleQuery_DeleteRows() {
	ctx := context.Background()
	host := tasks()

	n, err := sheetql.New(host).From("Tasks").Where(map[string]any{"Status": "open"}).DeleteRows(ctx)
	if err != nil {
		log.Fatal(err)
	}
	grid, _ := host.Grid("Tasks")
	fmt.Println(n, len(grid))

	// Output:
	// 2 2
}

// ExampleQuery_Dump demonstrates exporting selected columns as TSV
func ExampleQuery_Dump() {
	ctx := context.Background()

	err := sheetql.New(tasks()).
		From("Tasks").
		Select("Owner", "Title").
		Where(map[string]any{"Owner": "bo"}).
		Dump(ctx, os.Stdout, sheetql.NewDumpOptions().WithFormat(sheetql.OutputFormatTSV))
	if err != nil {
		log.Fatal(err)
	}

	// Output:
	// Owner	Title
	// bo	Fix bug
	// bo	Review
}

// ExampleQuery_OpenDB demonstrates running SQL over selected rows
func ExampleQuery_OpenDB() {
	ctx := context.Background()

	db, err := sheetql.New(tasks()).From("Tasks").OpenDB(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT Owner, COUNT(*) FROM Tasks GROUP BY Owner ORDER BY Owner")
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var count int
		if err := rows.Scan(&owner, &count); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d\n", owner, count)
	}

	// Output:
	// ann: 1
	// bo: 2
}
