package export

import (
	"errors"
	"fmt"
)

// ErrNoColumns is returned when a dataset has no headers.
var ErrNoColumns = errors.New("export: dataset has no columns")

// Dataset is an ordered table. Every row must have one cell per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return ErrNoColumns
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("export: row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}
