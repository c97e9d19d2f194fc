package layer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// avgPool replaces each FilterSize x FilterSize window of a channel by its mean.
// Channels are pooled independently.
func (l *Layer) avgPool(in *tensor.Tensor) *tensor.Tensor {
	area := float64(l.FilterSize * l.FilterSize)
	return l.pool(in, func(window mat.Matrix) float64 {
		return mat.Sum(window) / area
	})
}

// pool applies reduce to every strided window of every channel.
func (l *Layer) pool(in *tensor.Tensor, reduce func(mat.Matrix) float64) *tensor.Tensor {
	n := l.OutputSide
	fs := l.FilterSize
	stride := l.Stride

	out := tensor.New(l.Channels, n, n)
	for c := 0; c < l.Channels; c++ {
		plane := in.Plane(c)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				window := plane.Slice(i*stride, i*stride+fs, j*stride, j*stride+fs)
				out.Set(c, i, j, reduce(window))
			}
		}
	}
	return out
}
