// Command sheetql queries and edits the rows of an Excel sheet from the
// command line.
//
//	sheetql --file tasks.xlsx --sheet Tasks --where Status=open rows
//	sheetql --file tasks.xlsx --sheet Tasks --where Owner=bo update --set Status=done
//
// SHEETQL_FILE and SHEETQL_SHEET provide defaults for --file and --sheet, and
// are also read from a .env file in the working directory.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
