package layer

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// BuildDenseWeights builds an inputPositions x OutputSide^2 matrix from the leading rows
// of block and uses it for every output channel. Row i holds the weights from input
// position i to each output position.
//
// Every channel shares the same matrix. Use BuildDenseWeightsPerChannel for distinct
// weights per channel.
func (l *Layer) BuildDenseWeights(inputPositions int, block [][]float64) error {
	w, err := l.denseMatrix(inputPositions, block, 0)
	if err != nil {
		return err
	}
	l.dense = make([]*mat.Dense, l.Channels)
	for c := range l.dense {
		l.dense[c] = w
	}
	return nil
}

// BuildDenseWeightsPerChannel reads Channels consecutive inputPositions-row blocks,
// one weight matrix per output channel.
func (l *Layer) BuildDenseWeightsPerChannel(inputPositions int, block [][]float64) error {
	dense := make([]*mat.Dense, l.Channels)
	for c := range dense {
		w, err := l.denseMatrix(inputPositions, block, c*inputPositions)
		if err != nil {
			return fmt.Errorf("channel %d: %w", c, err)
		}
		dense[c] = w
	}
	l.dense = dense
	return nil
}

// DenseRows returns how many weight rows the dense builders read for inputPositions.
func (l *Layer) DenseRows(inputPositions int, perChannel bool) int {
	if perChannel {
		return l.Channels * inputPositions
	}
	return inputPositions
}

// DenseWeights returns the per-channel weight matrices.
func (l *Layer) DenseWeights() []*mat.Dense {
	return l.dense
}

func (l *Layer) denseMatrix(inputPositions int, block [][]float64, first int) (*mat.Dense, error) {
	outputPositions := l.OutputSide * l.OutputSide
	if inputPositions <= 0 || outputPositions <= 0 {
		return nil, fmt.Errorf("%w: layer %d: %d input positions, %d output positions",
			ErrShape, l.ID, inputPositions, outputPositions)
	}
	if len(block) < first+inputPositions {
		return nil, fmt.Errorf("%w: layer %d: %d rows, want %d",
			ErrShortBlock, l.ID, len(block), first+inputPositions)
	}

	w := mat.NewDense(inputPositions, outputPositions, nil)
	for i := 0; i < inputPositions; i++ {
		row := block[first+i]
		if len(row) < outputPositions {
			return nil, fmt.Errorf("%w: layer %d row %d: %d values, want %d",
				ErrShortBlock, l.ID, first+i, len(row), outputPositions)
		}
		w.SetRow(i, row[:outputPositions])
	}
	return w, nil
}

// project maps the whole input through each channel's dense matrix:
//
//	out[c][row][col] = sum over ic, ir, jc of in[ic][ir][jc] * W_c[jc + ir*side][col + row*OutputSide]
//
// All input channels share the input-position key, so the flattened channels are
// summed first and then multiplied by W_c^T.
func (l *Layer) project(in *tensor.Tensor) *tensor.Tensor {
	shape := in.Shape()
	acc := make([]float64, shape.Rows*shape.Cols)
	for z := 0; z < shape.Channels; z++ {
		plane := in.Plane(z)
		for r := 0; r < shape.Rows; r++ {
			floats.Add(acc[r*shape.Cols:(r+1)*shape.Cols], plane.RawRowView(r))
		}
	}
	x := mat.NewVecDense(len(acc), acc)

	n := l.OutputSide
	out := tensor.New(l.Channels, n, n)
	var y mat.VecDense
	for c := 0; c < l.Channels; c++ {
		y.MulVec(l.dense[c].T(), x)
		for pos := 0; pos < n*n; pos++ {
			out.Set(c, pos/n, pos%n, y.AtVec(pos))
		}
	}
	return out
}
