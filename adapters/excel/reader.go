package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whrlab/adapters/datareadiness/coercer"
	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/logging"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into typed tables
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	required []string
	coercer  *coercer.TypeCoercer
}

// Option configures a DataReader
type Option func(*DataReader)

// WithRequiredColumns makes the read fail unless every column is present
func WithRequiredColumns(columns ...string) Option {
	return func(r *DataReader) {
		r.required = append(r.required, columns...)
	}
}

// WithSheet selects the workbook sheet for xlsx files. The default is
// the first sheet.
func WithSheet(sheet string) Option {
	return func(r *DataReader) {
		r.sheet = sheet
	}
}

// WithCoercionConfig overrides the type sniffing rules
func WithCoercionConfig(cfg coercer.CoercionConfig) Option {
	return func(r *DataReader) {
		r.coercer = coercer.NewTypeCoercer(cfg)
	}
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ...Option) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	r := &DataReader{
		filePath: filePath,
		fileType: fileType,
		coercer:  coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadTable reads the file at path into a table
func LoadTable(path string, opts ...Option) (*dataset.Table, error) {
	return NewDataReader(path, opts...).ReadTable()
}

// ReadTable reads the file and returns a table whose column types are
// sniffed from content
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	log := logging.Component("DataReader")
	log.Debug().Str("file", r.filePath).Str("type", r.fileType).Msg("reading data file")

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, apperrors.DataLoadError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}

	table, err := r.buildTable(rows)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("file", r.filePath).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns())).
		Dur("elapsed", time.Since(start)).
		Msg("data file loaded")
	return table, nil
}

// readExcelRows reads the configured sheet, padding rows that excelize
// returned without their trailing empty cells
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.DataLoadError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.DataLoadError("Excel file has no sheets", nil)
		}
		sheet = sheets[0]
	}

	// Raw values: number formats would otherwise round what is stored
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.DataLoadError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.DataLoadError("Excel file is empty", nil)
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, apperrors.DataLoadError(fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), width), nil)
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// readCSVRows reads every record; encoding/csv rejects rows whose width
// differs from the header
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.DataLoadError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 0

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.DataLoadError("failed to read CSV file", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, apperrors.DataLoadError("CSV file is empty", nil)
	}
	return rows, nil
}

// buildTable converts raw string rows into typed columns. Header names
// are trimmed; cells are handed to the coercer as read.
func (r *DataReader) buildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, apperrors.DataLoadError(fmt.Sprintf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType)), nil)
	}

	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(headers))
	for i, header := range rows[0] {
		name := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if name == "" {
			return nil, apperrors.DataLoadError(fmt.Sprintf("header column %d is empty", i+1), nil)
		}
		if seen[name] {
			return nil, apperrors.DataLoadError(fmt.Sprintf("duplicate header %q", name), nil)
		}
		seen[name] = true
		headers[i] = name
	}

	for _, name := range r.required {
		if !seen[name] {
			return nil, apperrors.DataLoadError(fmt.Sprintf("required column %q not found", name), nil)
		}
	}

	data := rows[1:]
	columns := make([]dataset.Column, len(headers))
	cells := make([]string, len(data))
	for j, name := range headers {
		for i, row := range data {
			cells[i] = row[j]
		}
		columns[j] = r.coercer.BuildColumn(name, cells)
	}

	table, err := dataset.NewTable(columns...)
	if err != nil {
		return nil, apperrors.DataLoadError("inconsistent table", err)
	}
	return table, nil
}

// FileLoader loads tables from local CSV and xlsx files
type FileLoader struct {
	opts []Option
}

// NewFileLoader creates a loader that applies opts to every read
func NewFileLoader(opts ...Option) *FileLoader {
	return &FileLoader{opts: opts}
}

// LoadTable implements ports.TableLoader
func (l *FileLoader) LoadTable(ctx context.Context, path string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewDataReader(path, l.opts...).ReadTable()
}
