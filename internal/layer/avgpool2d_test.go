package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

func TestAvgPoolForward(t *testing.T) {
	pool := New(Config{Kind: AveragePooling, FilterSize: 2, Stride: 2, OutputSide: 2, Channels: 1})

	out := pool.Transform(grid(t, 4))

	// (1+2+5+6)/4 = 3.5, (3+4+7+8)/4 = 5.5
	// (9+10+13+14)/4 = 11.5, (11+12+15+16)/4 = 13.5
	assertValues(t, []float64{3.5, 5.5, 11.5, 13.5}, out)
}

func TestAvgPoolForwardStride(t *testing.T) {
	pool := New(Config{Kind: AveragePooling, FilterSize: 2, Stride: 1, OutputSide: 2, Channels: 1})

	out := pool.Transform(grid(t, 3))

	// (1+2+4+5)/4, (2+3+5+6)/4, (4+5+7+8)/4, (5+6+8+9)/4
	assertValues(t, []float64{3, 4, 6, 7}, out)
}

func TestAvgPoolUniformWindow(t *testing.T) {
	for _, fs := range []int{1, 2, 3, 6} {
		in := tensor.New(2, 6, 6)
		for c := 0; c < 2; c++ {
			for i := 0; i < 6; i++ {
				for j := 0; j < 6; j++ {
					in.Set(c, i, j, 0.3)
				}
			}
		}
		side := (6-fs)/fs + 1
		pool := New(Config{Kind: AveragePooling, FilterSize: fs, Stride: fs, OutputSide: side, Channels: 2})

		for _, v := range pool.Transform(in).Flatten() {
			assert.InDelta(t, 0.3, v, 1e-12, "filter size %d", fs)
		}
	}
}

func TestAvgPoolKeepsChannelsApart(t *testing.T) {
	in, err := tensor.FromSlices([][][]float64{
		{{1, 1}, {1, 1}},
		{{2, 4}, {6, 8}},
	})
	require.NoError(t, err)
	pool := New(Config{Kind: AveragePooling, FilterSize: 2, Stride: 2, OutputSide: 1, Channels: 2})

	out := pool.Transform(in)

	assert.Equal(t, tensor.Shape{Channels: 2, Rows: 1, Cols: 1}, out.Shape())
	assertValues(t, []float64{1, 5}, out)
}
