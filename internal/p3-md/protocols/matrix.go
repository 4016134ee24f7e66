package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/huitseeker/p3-md/internal/p3-md/utils"
)

// Matrix is a row-major table of base-field elements.
//
// Traces are stored row-major: cell (r, c) lives at values[r*width+c].
// The trace height must be a power of two so that the table can be
// interpolated over a two-adic multiplicative subgroup.
type Matrix struct {
	values []field.Element
	width  int
}

// NewMatrix creates a matrix from row-major values.
func NewMatrix(values []field.Element, width int) (*Matrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("matrix width must be positive, got %d", width)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("value count %d is not a multiple of width %d", len(values), width)
	}
	return &Matrix{values: values, width: width}, nil
}

// NewTraceMatrix creates a matrix and additionally checks that its height
// is a power of two, as required for trace tables.
func NewTraceMatrix(values []field.Element, width int) (*Matrix, error) {
	m, err := NewMatrix(values, width)
	if err != nil {
		return nil, err
	}
	if !utils.IsPowerOfTwo(m.Height()) {
		return nil, fmt.Errorf("trace height must be a power of two, got %d", m.Height())
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Matrix) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Matrix) Height() int {
	return len(m.values) / m.width
}

// Get returns the cell at the given row and column.
func (m *Matrix) Get(row, col int) field.Element {
	return m.values[row*m.width+col]
}

// Set overwrites the cell at the given row and column.
func (m *Matrix) Set(row, col int, v field.Element) {
	m.values[row*m.width+col] = v
}

// Row returns a view of the given row.
func (m *Matrix) Row(row int) []field.Element {
	return m.values[row*m.width : (row+1)*m.width]
}

// Column copies out the given column.
func (m *Matrix) Column(col int) []field.Element {
	out := make([]field.Element, m.Height())
	for r := range out {
		out[r] = m.values[r*m.width+col]
	}
	return out
}

// Lift embeds the matrix into the extension field.
func (m *Matrix) Lift() *ExtMatrix {
	lifted := make([]xfield.XFieldElement, len(m.values))
	for i, v := range m.values {
		lifted[i] = xfield.NewConst(v)
	}
	return &ExtMatrix{values: lifted, width: m.width}
}

// ExtMatrix is a row-major table of extension-field elements.
// Auxiliary traces and all out-of-domain evaluations live here.
type ExtMatrix struct {
	values []xfield.XFieldElement
	width  int
}

// NewExtMatrix creates an extension matrix from row-major values.
func NewExtMatrix(values []xfield.XFieldElement, width int) (*ExtMatrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("matrix width must be positive, got %d", width)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("value count %d is not a multiple of width %d", len(values), width)
	}
	return &ExtMatrix{values: values, width: width}, nil
}

// EmptyExtMatrix returns a zero-width matrix with the given height.
// It stands in for the auxiliary trace of computations that have none.
func EmptyExtMatrix() *ExtMatrix {
	return &ExtMatrix{values: nil, width: 0}
}

// Width returns the number of columns.
func (m *ExtMatrix) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *ExtMatrix) Height() int {
	if m.width == 0 {
		return 0
	}
	return len(m.values) / m.width
}

// Get returns the cell at the given row and column.
func (m *ExtMatrix) Get(row, col int) xfield.XFieldElement {
	return m.values[row*m.width+col]
}

// Row returns a view of the given row.
func (m *ExtMatrix) Row(row int) []xfield.XFieldElement {
	return m.values[row*m.width : (row+1)*m.width]
}

// Column copies out the given column.
func (m *ExtMatrix) Column(col int) []xfield.XFieldElement {
	out := make([]xfield.XFieldElement, m.Height())
	for r := range out {
		out[r] = m.values[r*m.width+col]
	}
	return out
}
