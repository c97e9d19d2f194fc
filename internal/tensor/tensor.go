// Package tensor provides the 3D activation tensor passed between layers.
package tensor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrRagged is returned when the rows or channels of a 3D slice differ in length.
	ErrRagged = errors.New("tensor: ragged contents")

	// ErrNotSquare is returned when a flat sample cannot be laid out as a square image.
	ErrNotSquare = errors.New("tensor: sample length is not a perfect square")
)

// Shape is the channel x row x column extent of a tensor.
type Shape struct {
	Channels int
	Rows     int
	Cols     int
}

// Size returns the number of elements.
func (s Shape) Size() int {
	return s.Channels * s.Rows * s.Cols
}

// String formats the shape as [channels, rows, cols].
func (s Shape) String() string {
	return fmt.Sprintf("[%d, %d, %d]", s.Channels, s.Rows, s.Cols)
}

// Tensor is a channel x row x column array of float64.
// Each channel is stored as its own gonum dense plane.
type Tensor struct {
	shape  Shape
	planes []*mat.Dense
}

// New creates a zero tensor of the given shape.
func New(channels, rows, cols int) *Tensor {
	if channels < 0 || rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("tensor: invalid shape [%d, %d, %d]", channels, rows, cols))
	}
	planes := make([]*mat.Dense, channels)
	for c := range planes {
		planes[c] = mat.NewDense(rows, cols, nil)
	}
	return &Tensor{
		shape:  Shape{Channels: channels, Rows: rows, Cols: cols},
		planes: planes,
	}
}

// FromSlices builds a tensor from an explicit [channel][row][col] array.
// The values are copied.
func FromSlices(data [][][]float64) (*Tensor, error) {
	if len(data) == 0 || len(data[0]) == 0 || len(data[0][0]) == 0 {
		return nil, fmt.Errorf("%w: empty contents", ErrRagged)
	}
	rows, cols := len(data[0]), len(data[0][0])
	t := New(len(data), rows, cols)
	for c, channel := range data {
		if len(channel) != rows {
			return nil, fmt.Errorf("%w: channel %d has %d rows, want %d", ErrRagged, c, len(channel), rows)
		}
		for i, row := range channel {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: channel %d row %d has %d cols, want %d", ErrRagged, c, i, len(row), cols)
			}
			t.planes[c].SetRow(i, row)
		}
	}
	return t, nil
}

// FromSquare lays out a flat row-major sample as a single-channel square tensor.
func FromSquare(flat []float64) (*Tensor, error) {
	side := int(math.Sqrt(float64(len(flat))))
	// Correct for rounding of the square root on large lengths.
	for side*side > len(flat) {
		side--
	}
	for (side+1)*(side+1) <= len(flat) {
		side++
	}
	if side == 0 || side*side != len(flat) {
		return nil, fmt.Errorf("%w: %d values", ErrNotSquare, len(flat))
	}

	data := make([]float64, len(flat))
	copy(data, flat)
	return &Tensor{
		shape:  Shape{Channels: 1, Rows: side, Cols: side},
		planes: []*mat.Dense{mat.NewDense(side, side, data)},
	}, nil
}

// Shape returns the tensor extent.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// At returns the value at channel c, row i, column j.
func (t *Tensor) At(c, i, j int) float64 {
	return t.planes[c].At(i, j)
}

// Set stores v at channel c, row i, column j.
func (t *Tensor) Set(c, i, j int, v float64) {
	t.planes[c].Set(i, j, v)
}

// Plane returns channel c. Callers must not modify it.
func (t *Tensor) Plane(c int) *mat.Dense {
	return t.planes[c]
}

// Contents returns a copy of the full [channel][row][col] array.
func (t *Tensor) Contents() [][][]float64 {
	out := make([][][]float64, t.shape.Channels)
	for c, p := range t.planes {
		out[c] = make([][]float64, t.shape.Rows)
		for i := range out[c] {
			out[c][i] = mat.Row(nil, i, p)
		}
	}
	return out
}

// Flatten returns all values channel-major, then row, then column.
func (t *Tensor) Flatten() []float64 {
	out := make([]float64, 0, t.shape.Size())
	for _, p := range t.planes {
		for i := 0; i < t.shape.Rows; i++ {
			out = append(out, p.RawRowView(i)...)
		}
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	planes := make([]*mat.Dense, len(t.planes))
	for c, p := range t.planes {
		planes[c] = mat.DenseCopyOf(p)
	}
	return &Tensor{shape: t.shape, planes: planes}
}

// Clear releases the backing planes. The tensor is empty afterwards.
func (t *Tensor) Clear() {
	t.planes = nil
	t.shape = Shape{}
}
