package excel

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"socialpulse/internal"
	apperrors "socialpulse/internal/errors"
	"socialpulse/ports"

	"github.com/xuri/excelize/v2"
)

// Supported file types
const (
	FileTypeXLSX = "xlsx"
	FileTypeCSV  = "csv"
	FileTypeJSON = "json"
)

// DataReader handles reading Excel, CSV and JSON files
type DataReader struct {
	filePath string
	fileType string
	sheet    string
	logger   *internal.Logger
}

var _ ports.RowSource = (*DataReader)(nil)

// ReaderOption configures a DataReader
type ReaderOption func(*DataReader)

// WithSheet selects the worksheet read from xlsx files.
func WithSheet(name string) ReaderOption {
	return func(r *DataReader) { r.sheet = name }
}

// WithLogger replaces the default logger.
func WithLogger(l *internal.Logger) ReaderOption {
	return func(r *DataReader) { r.logger = l }
}

// NewDataReader creates a new data reader; the file type follows the extension
func NewDataReader(filePath string, opts ...ReaderOption) *DataReader {
	r := &DataReader{
		filePath: filePath,
		fileType: DetectFileType(filePath),
		logger:   internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("DataReader")
	return r
}

// DetectFileType maps a file extension onto a supported type, or "" when unsupported.
func DetectFileType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	case ".csv":
		return FileTypeCSV
	case ".json":
		return FileTypeJSON
	}
	return ""
}

// Name identifies the reader in logs and errors
func (r *DataReader) Name() string {
	return r.filePath
}

// ReadRows implements ports.RowSource
func (r *DataReader) ReadRows(ctx context.Context) ([]ports.Row, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return data.Rows, nil
}

// ReadData reads the whole file into structured format
func (r *DataReader) ReadData(ctx context.Context) (*ExcelData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if r.fileType == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.filePath))
	}
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	start := time.Now()
	var (
		data *ExcelData
		err  error
	)
	switch r.fileType {
	case FileTypeCSV:
		data, err = r.readCSVData(ctx)
	case FileTypeXLSX:
		data, err = r.readExcelData()
	case FileTypeJSON:
		data, err = r.readJSONData()
	}
	if err != nil {
		return nil, apperrors.LoadFailed(r.filePath, err)
	}

	r.logger.Info("%s file processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(start).Nanoseconds())/1e6, len(data.Headers), len(data.Rows))
	return data, nil
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*ExcelData, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &ExcelData{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("Sheet %s read (%d rows)", sheet, len(rows))
	return r.processRows(rows), nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(ctx context.Context) (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, record)
	}
	return r.processRows(rows), nil
}

// readJSONData reads an array of objects; numbers stay numeric
func (r *DataReader) readJSONData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode JSON file: %w", err)
	}

	// Headers follow first appearance; keys new to an object are added in sorted order.
	data := &ExcelData{Rows: make([]ports.Row, 0, len(objects))}
	seen := make(map[string]bool)
	for _, obj := range objects {
		row := make(ports.Row, len(obj))
		for _, k := range slices.Sorted(maps.Keys(obj)) {
			key := strings.TrimSpace(k)
			row[key] = obj[k]
			if !seen[key] {
				seen[key] = true
				data.Headers = append(data.Headers, key)
			}
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

// processRows converts raw string rows into ExcelData format.
// Cells beyond the header are ignored; missing trailing cells stay absent.
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	if len(rows) == 0 {
		return &ExcelData{}
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]ports.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(ports.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}
}
