package net

import (
	"bufio"
	"io"
	"strconv"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// DefaultPrecision is the number of decimal places printed per value.
const DefaultPrecision = 16

// Format controls how WriteTensor prints a result.
type Format struct {
	// Precision is the number of digits after the decimal point.
	Precision int

	// LinePerChannel ends a line after every channel instead of after the whole tensor.
	LinePerChannel bool
}

// DefaultFormat prints one line per tensor at DefaultPrecision.
var DefaultFormat = Format{Precision: DefaultPrecision}

// WriteTensor prints the values of t as fixed-point numbers separated by spaces,
// channel by channel, row by row.
func WriteTensor(w io.Writer, t *tensor.Tensor, f Format) error {
	bw := bufio.NewWriter(w)
	shape := t.Shape()
	perChannel := shape.Rows * shape.Cols
	buf := make([]byte, 0, 32)
	for i, v := range t.Flatten() {
		if i > 0 {
			if f.LinePerChannel && i%perChannel == 0 {
				bw.WriteByte('\n')
			} else {
				bw.WriteByte(' ')
			}
		}
		buf = strconv.AppendFloat(buf[:0], v, 'f', f.Precision, 64)
		bw.Write(buf)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
