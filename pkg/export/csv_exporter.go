package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content. Footer, when set, is written as a
// trailing row aligned to Headers.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

// Render produces CSV encoded bytes for the dataset. The title is not part
// of the CSV body.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(align(row, len(data.Headers))); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if len(data.Footer) > 0 {
		if err := writer.Write(align(data.Footer, len(data.Headers))); err != nil {
			return nil, fmt.Errorf("write csv footer: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// align pads or truncates a record to width columns.
func align(record []string, width int) []string {
	out := make([]string, width)
	copy(out, record)
	return out
}
