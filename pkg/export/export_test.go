package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	d := NewDataset("Student metrics", "Student", "Pace", "Attendance (%)")
	d.Subtitle = "m-1, 2024-03-01 to 2024-03-29"
	d.Sheet = "Students"
	d.Append("Aisha", "6.00", "95.00")
	d.Append("Bilal", "0.00")
	return *d
}

func TestDatasetCellsPadsShortRows(t *testing.T) {
	d := sampleDataset()
	assert.Equal(t, []string{"Bilal", "0.00", Placeholder}, d.Cells(1))
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Pace,Attendance (%)", lines[0])
	assert.Equal(t, "Bilal,0.00,n/a", lines[2])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	wide := NewDataset("wide", "a", "b", "c", "d", "e", "f", "g", "h")
	for i := 0; i < 80; i++ {
		wide.Append("1", "2", "3")
	}
	out, err = NewPDFExporter().Render(*wide)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Students"}, f.GetSheetList())
	name, err := f.GetCellValue("Students", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Bilal", name)
	missing, err := f.GetCellValue("Students", "C3")
	require.NoError(t, err)
	assert.Equal(t, Placeholder, missing)
}

func TestExportersRequireHeaders(t *testing.T) {
	for _, r := range []Renderer{NewCSVExporter(), NewPDFExporter(), NewXLSXExporter()} {
		_, err := r.Render(Dataset{})
		assert.ErrorIs(t, err, ErrNoColumns)
	}
}
