package excel

import "socialpulse/ports"

// ExcelData represents one decoded table
type ExcelData struct {
	Headers []string    // Column headers, in file order
	Rows    []ports.Row // Data rows keyed by header
}
