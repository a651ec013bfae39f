package sheetql

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileType represents the base format of a sheet file, ignoring compression
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extLTSV is the LTSV file extension
	extLTSV = ".ltsv"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
)

// Delimiters for delimited files
const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// FileHost is a Host backed by a file on disk. Commit saves the file.
type FileHost interface {
	Host
	// Close releases the file without saving.
	Close() error
}

// OpenFile opens a sheet file, choosing the host by extension: .xlsx opens
// an XLSXHost, .csv, .tsv and .ltsv open a DelimitedHost. Any of them may
// carry a .gz, .bz2, .xz or .zst suffix.
func OpenFile(path string) (FileHost, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if detectFileType(path) == FileTypeXLSX {
		host, err := OpenXLSX(path)
		if err != nil {
			return nil, err
		}
		return host, nil
	}
	host, err := OpenDelimited(path)
	if err != nil {
		return nil, err
	}
	return host, nil
}

// detectFileType detects the base file type from a path, compression suffix
// excluded.
func detectFileType(path string) FileType {
	ext := strings.ToLower(filepath.Ext(trimCompressionExt(path)))
	switch ext {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extLTSV:
		return FileTypeLTSV
	case extXLSX:
		return FileTypeXLSX
	default:
		return FileTypeUnsupported
	}
}

// isSupportedFile checks if the file has a supported extension
func isSupportedFile(path string) bool {
	return detectFileType(path) != FileTypeUnsupported
}

// sheetFromFilePath derives a sheet name from a file path: the base name
// without format and compression extensions.
func sheetFromFilePath(path string) string {
	base := filepath.Base(trimCompressionExt(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validatePath checks that path names an existing file of a supported type
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("sheetql: path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("sheetql: path does not exist: %s", path)
		}
		return fmt.Errorf("sheetql: failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("sheetql: path is a directory: %s", path)
	}
	if !isSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}
