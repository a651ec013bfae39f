package sheetql

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sheetql/domain/model"
)

// DelimitedHost is a Host over a CSV, TSV or LTSV file holding a single
// sheet named after the file ("tasks.csv.gz" holds sheet "tasks").
// Every cell is text. Writes change the in-memory grid; Commit rewrites the
// file in its own format and compression.
//
// An LTSV file is read as a grid whose first row holds the labels in order
// of first appearance.
type DelimitedHost struct {
	*MemoryHost
	path     string
	fileType FileType
	sheet    string
}

// OpenDelimited loads the delimited file at path.
func OpenDelimited(path string) (*DelimitedHost, error) {
	fileType := detectFileType(path)
	if fileType != FileTypeCSV && fileType != FileTypeTSV && fileType != FileTypeLTSV {
		return nil, NewErrorContext("open", "").WithDetails(path).Error(ErrUnsupportedFormat)
	}

	data, err := readCompressedFile(path)
	if err != nil {
		return nil, NewErrorContext("open", "").WithDetails(path).Error(err)
	}
	grid, err := parseDelimited(bytes.NewReader(data), fileType)
	if err != nil {
		return nil, NewErrorContext("open", "").WithDetails(path).Error(err)
	}

	sheet := sheetFromFilePath(path)
	return &DelimitedHost{
		MemoryHost: NewMemoryHost().AddSheet(sheet, grid),
		path:       path,
		fileType:   fileType,
		sheet:      sheet,
	}, nil
}

// NewDelimitedFile writes grid to a new delimited file at path, replacing any
// existing file, and returns a host over it.
func NewDelimitedFile(path string, grid model.Grid) (*DelimitedHost, error) {
	fileType := detectFileType(path)
	if fileType != FileTypeCSV && fileType != FileTypeTSV && fileType != FileTypeLTSV {
		return nil, NewErrorContext("create", "").WithDetails(path).Error(ErrUnsupportedFormat)
	}

	sheet := sheetFromFilePath(path)
	h := &DelimitedHost{
		MemoryHost: NewMemoryHost().AddSheet(sheet, grid),
		path:       path,
		fileType:   fileType,
		sheet:      sheet,
	}
	if err := h.save(); err != nil {
		return nil, NewErrorContext("create", "").WithDetails(path).Error(err)
	}
	return h, nil
}

// SheetName returns the name of the only sheet.
func (h *DelimitedHost) SheetName() string {
	return h.sheet
}

// Close implements FileHost. Unsaved writes are dropped.
func (h *DelimitedHost) Close() error {
	return nil
}

// Commit implements Host by rewriting the file.
func (h *DelimitedHost) Commit(ctx context.Context) error {
	if err := h.save(); err != nil {
		return NewErrorContext("commit", h.sheet).WithDetails(h.path).Error(err)
	}
	return h.MemoryHost.Commit(ctx)
}

func (h *DelimitedHost) save() error {
	grid, _ := h.Grid(h.sheet)

	w, cleanup, err := createCompressedFile(h.path, detectCompression(h.path))
	if err != nil {
		return err
	}
	switch h.fileType {
	case FileTypeTSV:
		err = writeDelimited(w, grid, tsvDelimiter)
	case FileTypeLTSV:
		err = writeLTSV(w, grid)
	default:
		err = writeDelimited(w, grid, csvDelimiter)
	}
	if err != nil {
		return errors.Join(err, cleanup())
	}
	return cleanup()
}

// parseDelimited reads a whole delimited stream into a grid.
func parseDelimited(r io.Reader, fileType FileType) (model.Grid, error) {
	switch fileType {
	case FileTypeCSV:
		return parseDelimitedStream(r, csvDelimiter)
	case FileTypeTSV:
		return parseDelimitedStream(r, tsvDelimiter)
	case FileTypeLTSV:
		return parseLTSVStream(r)
	default:
		return nil, fmt.Errorf("%w: file type %d", ErrUnsupportedFormat, fileType)
	}
}

func parseDelimitedStream(r io.Reader, delimiter rune) (model.Grid, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make(model.Grid, len(records))
	for i, record := range records {
		line := make([]model.Value, len(record))
		for j, field := range record {
			line[j] = field
		}
		grid[i] = line
	}
	return grid, nil
}

func parseLTSVStream(r io.Reader) (model.Grid, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var labels []string
	index := make(map[string]int)
	var records []map[string]string

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			label, value, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			label = strings.TrimSpace(label)
			if _, seen := index[label]; !seen {
				index[label] = len(labels)
				labels = append(labels, label)
			}
			record[label] = value
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	if len(labels) == 0 {
		return model.Grid{}, nil
	}

	grid := make(model.Grid, 0, len(records)+1)
	header := make([]model.Value, len(labels))
	for i, label := range labels {
		header[i] = label
	}
	grid = append(grid, header)
	for _, record := range records {
		line := make([]model.Value, len(labels))
		for label, value := range record {
			line[index[label]] = value
		}
		grid = append(grid, line)
	}
	return grid, nil
}
