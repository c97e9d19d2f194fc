package net

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

func TestWriteTensor(t *testing.T) {
	x, err := tensor.FromSlices([][][]float64{
		{{0.5, -1}, {2, 0.125}},
		{{1.0 / 3, 0}, {0, 7}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTensor(&buf, x, Format{Precision: 3}))
	assert.Equal(t, "0.500 -1.000 2.000 0.125 0.333 0.000 0.000 7.000\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteTensor(&buf, x, Format{Precision: 2, LinePerChannel: true}))
	assert.Equal(t, "0.50 -1.00 2.00 0.12\n0.33 0.00 0.00 7.00\n", buf.String())
}

func TestWriteTensorDefaultPrecision(t *testing.T) {
	x, err := tensor.FromSquare([]float64{0.25})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTensor(&buf, x, DefaultFormat))
	assert.Equal(t, "0.2500000000000000\n", buf.String())
}
