package layer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// maxPool replaces each FilterSize x FilterSize window of a channel by its largest value.
func (l *Layer) maxPool(in *tensor.Tensor) *tensor.Tensor {
	return l.pool(in, mat.Max)
}
