package export

import "errors"

// Placeholder is rendered for metrics that cannot be computed.
const Placeholder = "n/a"

// ErrNoColumns is returned when a dataset has no headers.
var ErrNoColumns = errors.New("export: dataset has no columns")

// Renderer encodes a dataset into one file format.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}

// Dataset is one metric table. Rows hold cells in header order; short rows are
// padded with Placeholder.
type Dataset struct {
	Title    string
	Subtitle string
	Sheet    string
	Headers  []string
	Rows     [][]string
}

// NewDataset starts a table with the given columns.
func NewDataset(title string, headers ...string) *Dataset {
	return &Dataset{Title: title, Headers: headers}
}

// Append adds one row.
func (d *Dataset) Append(cells ...string) {
	d.Rows = append(d.Rows, cells)
}

// Cells returns row i normalised to the header width.
func (d Dataset) Cells(i int) []string {
	out := make([]string, len(d.Headers))
	row := d.Rows[i]
	for j := range out {
		if j < len(row) {
			out[j] = row[j]
		} else {
			out[j] = Placeholder
		}
	}
	return out
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return ErrNoColumns
	}
	return nil
}
