package layer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// BuildKernelWeights reshapes the first FilterSize^2 values of flatRow, row-major,
// into a square kernel and appends it as the next filter.
func (l *Layer) BuildKernelWeights(flatRow []float64) error {
	fs := l.FilterSize
	if fs <= 0 {
		return fmt.Errorf("%w: layer %d: filter size %d", ErrShape, l.ID, fs)
	}
	if len(flatRow) < fs*fs {
		return fmt.Errorf("%w: layer %d kernel %d: %d values, want %d",
			ErrShortRow, l.ID, len(l.kernels), len(flatRow), fs*fs)
	}
	data := make([]float64, fs*fs)
	copy(data, flatRow)
	l.kernels = append(l.kernels, mat.NewDense(fs, fs, data))
	return nil
}

// Kernels returns the convolution kernels in filter order.
func (l *Layer) Kernels() []*mat.Dense {
	return l.kernels
}

// convolve slides every kernel over the input with the layer stride. Each output value
// sums the windowed products over all input channels, so input depth collapses into
// one channel per filter.
func (l *Layer) convolve(in *tensor.Tensor) *tensor.Tensor {
	n := l.OutputSide
	fs := l.FilterSize
	stride := l.Stride
	inChannels := in.Shape().Channels

	out := tensor.New(l.NumFilters, n, n)
	var prod mat.Dense
	for c := 0; c < l.NumFilters; c++ {
		kernel := l.kernels[c]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum := 0.0
				for z := 0; z < inChannels; z++ {
					window := in.Plane(z).Slice(i*stride, i*stride+fs, j*stride, j*stride+fs)
					prod.MulElem(window, kernel)
					sum += mat.Sum(&prod)
				}
				out.Set(c, i, j, sum)
			}
		}
	}
	return out
}
