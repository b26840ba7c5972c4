package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Transkrip 1901001",
		Headers: []string{"Code", "Title", "Credits", "Grade"},
		Rows: [][]string{
			{"CS101", "Pemrograman Dasar", "3", "A"},
			{"MA205", "Kalkulus I", "4", "B+"},
		},
		Footer: []string{"", "Total", "7"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Code,Title,Credits,Grade\nCS101,Pemrograman Dasar,3,A\nMA205,Kalkulus I,4,B+\n,Total,7,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
