package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WriteTable stores t at path as CSV, or as a workbook when the
// extension is .xlsx. Missing values become empty cells.
func WriteTable(path string, t *dataset.Table) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xlsm" {
		return writeExcel(path, t)
	}
	return writeCSV(path, t)
}

func writeCSV(path string, t *dataset.Table) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = apperrors.Wrapf(cerr, "close %s", path)
		}
	}()

	w := csv.NewWriter(file)
	for _, record := range records(t) {
		if err := w.Write(record); err != nil {
			return apperrors.Wrapf(err, "write %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.Wrapf(err, "flush %s", path)
	}
	return nil
}

func writeExcel(path string, t *dataset.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.Wrapf(cerr, "close workbook %s", path)
		}
	}()

	sheet := f.GetSheetName(0)
	for i, record := range records(t) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.Wrap(err, "cell name")
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.Wrapf(err, "write row %d", i+1)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.Wrapf(err, "save %s", path)
	}
	return nil
}

// records renders the header and every row as text
func records(t *dataset.Table) [][]string {
	names := t.Columns()
	cols := make([]dataset.Column, len(names))
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			panic(fmt.Sprintf("column %q listed but not found", name))
		}
		cols[i] = col
	}

	out := make([][]string, 0, t.Len()+1)
	out = append(out, names)
	for r := 0; r < t.Len(); r++ {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = col.Format(r)
		}
		out = append(out, record)
	}
	return out
}
