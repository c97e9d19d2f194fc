package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

func identity(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	return rows
}

func TestDenseBroadcastsWeights(t *testing.T) {
	fc := New(Config{Kind: FullyConnected, OutputSide: 1, Channels: 2})
	require.NoError(t, fc.BuildDenseWeights(4, [][]float64{{1}, {1}, {1}, {1}}))

	out := fc.Transform(grid(t, 2))

	assert.Equal(t, tensor.Shape{Channels: 2, Rows: 1, Cols: 1}, out.Shape())
	assertValues(t, []float64{10, 10}, out)
	assert.Same(t, fc.DenseWeights()[0], fc.DenseWeights()[1])
}

func TestDensePerChannelWeights(t *testing.T) {
	fc := New(Config{Kind: FullyConnected, OutputSide: 1, Channels: 2})
	block := [][]float64{
		{1}, {1}, {1}, {1},
		{0}, {0}, {0}, {2},
	}
	require.NoError(t, fc.BuildDenseWeightsPerChannel(4, block))

	out := fc.Transform(grid(t, 2))

	assertValues(t, []float64{10, 8}, out)
	assert.Equal(t, 8, fc.DenseRows(4, true))
	assert.Equal(t, 4, fc.DenseRows(4, false))
}

func TestDensePositionKeys(t *testing.T) {
	in, err := tensor.FromSlices([][][]float64{
		{{1, 2}, {3, 4}},
		{{10, 20}, {30, 40}},
	})
	require.NoError(t, err)

	fc := New(Config{Kind: FullyConnected, OutputSide: 2, Channels: 1})
	require.NoError(t, fc.BuildDenseWeights(4, identity(4)))
	assertValues(t, []float64{11, 22, 33, 44}, fc.Transform(in))

	// W[k][3-k] = 1 reverses the positions.
	reversed := make([][]float64, 4)
	for k := range reversed {
		reversed[k] = make([]float64, 4)
		reversed[k][3-k] = 1
	}
	require.NoError(t, fc.BuildDenseWeights(4, reversed))
	assertValues(t, []float64{44, 33, 22, 11}, fc.Transform(in))
}

func TestDenseMatchesDirectSum(t *testing.T) {
	in := grid(t, 3)
	const outSide = 2
	block := make([][]float64, 9)
	for i := range block {
		block[i] = make([]float64, outSide*outSide)
		for j := range block[i] {
			block[i][j] = float64(i*4+j) / 10
		}
	}
	fc := New(Config{Kind: FullyConnected, OutputSide: outSide, Channels: 1})
	require.NoError(t, fc.BuildDenseWeights(9, block))

	out := fc.Transform(in)

	for row := 0; row < outSide; row++ {
		for col := 0; col < outSide; col++ {
			want := 0.0
			for ir := 0; ir < 3; ir++ {
				for jc := 0; jc < 3; jc++ {
					want += in.At(0, ir, jc) * block[jc+ir*3][col+row*outSide]
				}
			}
			assert.InDelta(t, want, out.At(0, row, col), 1e-9)
		}
	}
}

func TestBuildDenseWeightsErrors(t *testing.T) {
	fc := New(Config{ID: 5, Kind: FullyConnected, OutputSide: 2, Channels: 2})

	err := fc.BuildDenseWeights(4, identity(3))
	assert.ErrorIs(t, err, ErrShortBlock)

	err = fc.BuildDenseWeights(2, [][]float64{{1, 2, 3, 4}, {1, 2}})
	assert.ErrorIs(t, err, ErrShortBlock)

	err = fc.BuildDenseWeightsPerChannel(4, identity(4))
	assert.ErrorIs(t, err, ErrShortBlock)
	assert.Contains(t, err.Error(), "channel 1")

	err = fc.BuildDenseWeights(0, identity(4))
	assert.ErrorIs(t, err, ErrShape)
}
