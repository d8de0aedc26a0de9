package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "socialpulse/internal/errors"
	"socialpulse/ports"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes rows under the given header order. Missing or nil cells are left empty.
func WriteCSV(w io.Writer, headers []string, rows []ports.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = cellString(row[h])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows into a single-sheet workbook at path
func WriteXLSX(path, sheet string, headers []string, rows []ports.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r, row := range rows {
		values := make([]interface{}, len(headers))
		for i, h := range headers {
			values[i] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// WriteFile writes rows to path in the format its extension names
func WriteFile(path, sheet string, headers []string, rows []ports.Row) error {
	fileType := DetectFileType(path)
	switch fileType {
	case FileTypeXLSX:
		return WriteXLSX(path, sheet, headers, rows)
	case FileTypeCSV:
		out, err := os.Create(path)
		if err != nil {
			return apperrors.Wrapf(err, "failed to create %s", path)
		}
		if err := WriteCSV(out, headers, rows); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	return apperrors.InvalidInput(fmt.Sprintf("unsupported output file %s", path))
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
