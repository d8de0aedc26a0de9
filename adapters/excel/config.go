package excel

// ExcelConfig holds configuration for a file-backed data source
type ExcelConfig struct {
	FilePath  string `json:"file_path"`
	SheetName string `json:"sheet_name"` // xlsx only; empty selects the first sheet
}

// Enabled reports whether a file is configured at all.
func (c ExcelConfig) Enabled() bool {
	return c.FilePath != ""
}

// NewReader builds a DataReader for the configured file.
func (c ExcelConfig) NewReader(opts ...ReaderOption) *DataReader {
	if c.SheetName != "" {
		opts = append([]ReaderOption{WithSheet(c.SheetName)}, opts...)
	}
	return NewDataReader(c.FilePath, opts...)
}
