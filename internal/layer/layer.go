// Package layer provides the network layer kinds and their forward transforms.
package layer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/keoniburns/Convolutional-neural-network/internal/activations"
	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

var (
	// ErrUnknownKind is returned when a layer kind character is not one of I, C, A, M, F.
	ErrUnknownKind = errors.New("unknown layer kind")

	// ErrShortRow is returned when a weight row is too short for a kernel.
	ErrShortRow = errors.New("weight row too short")

	// ErrShortBlock is returned when the weight block cannot fill a dense matrix.
	ErrShortBlock = errors.New("weight block too small")

	// ErrShape is returned when a layer's configuration does not fit its input.
	ErrShape = errors.New("inconsistent layer shape")
)

// Kind identifies a layer type by its structure-file character.
type Kind byte

const (
	Input          Kind = 'I'
	Convolution    Kind = 'C'
	AveragePooling Kind = 'A'
	MaxPooling     Kind = 'M'
	FullyConnected Kind = 'F'
)

// ParseKind returns the kind named by the first character of s.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnknownKind)
	}
	switch k := Kind(s[0]); k {
	case Input, Convolution, AveragePooling, MaxPooling, FullyConnected:
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string {
	return string(rune(k))
}

// Config is one line of the structure file.
type Config struct {
	ID         int
	Kind       Kind
	NumFilters int
	FilterSize int
	Stride     int
	OutputSide int
	Channels   int
	Activation activations.Kind
	Bias       float64
}

func (c Config) String() string {
	return fmt.Sprintf("id: %d | type: %s | number of filters: %d | filter size: %d | stride: %d | output side: %d | channels: %d | activation: %s | bias: %g",
		c.ID, c.Kind, c.NumFilters, c.FilterSize, c.Stride, c.OutputSide, c.Channels, c.Activation, c.Bias)
}

// Layer is a configured layer together with the weights it owns.
// Weights are built once before the forward pass and never change afterwards.
type Layer struct {
	Config

	// Convolution: one FilterSize x FilterSize kernel per filter
	kernels []*mat.Dense

	// FullyConnected: one inputPositions x OutputSide^2 matrix per output channel
	dense []*mat.Dense
}

// New creates a layer with no weights.
func New(cfg Config) *Layer {
	return &Layer{Config: cfg}
}

// Weighted reports whether the layer consumes rows of the weight stream.
func (l *Layer) Weighted() bool {
	return l.Kind == Convolution || l.Kind == FullyConnected
}

// Pooling reports whether the layer is a pooling layer. Pooling output is never activated.
func (l *Layer) Pooling() bool {
	return l.Kind == AveragePooling || l.Kind == MaxPooling
}

// Transform computes the layer output for in. The output shape depends only on the configuration.
func (l *Layer) Transform(in *tensor.Tensor) *tensor.Tensor {
	switch l.Kind {
	case Input:
		return in
	case Convolution:
		return l.convolve(in)
	case AveragePooling:
		return l.avgPool(in)
	case MaxPooling:
		return l.maxPool(in)
	case FullyConnected:
		return l.project(in)
	}
	panic(fmt.Sprintf("layer: kind %q has no transform", byte(l.Kind)))
}

// Activate adds the layer bias to every element and applies the layer activation.
func (l *Layer) Activate(in *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := activations.Apply(in, l.Bias, l.Activation)
	if err != nil {
		return out, fmt.Errorf("layer %d: %w", l.ID, err)
	}
	return out, nil
}

// OutputShape returns the shape Transform produces for an input of shape in.
func (l *Layer) OutputShape(in tensor.Shape) tensor.Shape {
	switch l.Kind {
	case Input:
		return in
	case Convolution:
		return tensor.Shape{Channels: l.NumFilters, Rows: l.OutputSide, Cols: l.OutputSide}
	}
	return tensor.Shape{Channels: l.Channels, Rows: l.OutputSide, Cols: l.OutputSide}
}

// Validate checks that the layer configuration and weights fit an input of shape in,
// so that Transform stays within bounds.
func (l *Layer) Validate(in tensor.Shape) error {
	if in.Rows != in.Cols {
		return fmt.Errorf("%w: layer %d: input %v is not square", ErrShape, l.ID, in)
	}
	switch l.Kind {
	case Input:
		return nil
	case Convolution, AveragePooling, MaxPooling:
		if err := l.validateWindow(in.Rows); err != nil {
			return err
		}
	case FullyConnected:
		if l.OutputSide <= 0 || l.Channels <= 0 {
			return fmt.Errorf("%w: layer %d: output side %d, channels %d", ErrShape, l.ID, l.OutputSide, l.Channels)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, byte(l.Kind))
	}

	switch l.Kind {
	case Convolution:
		if len(l.kernels) != l.NumFilters {
			return fmt.Errorf("%w: layer %d: %d kernels for %d filters", ErrShape, l.ID, len(l.kernels), l.NumFilters)
		}
	case AveragePooling, MaxPooling:
		if l.Channels != in.Channels {
			return fmt.Errorf("%w: layer %d: pools %d channels of a %d-channel input", ErrShape, l.ID, l.Channels, in.Channels)
		}
	case FullyConnected:
		if len(l.dense) != l.Channels {
			return fmt.Errorf("%w: layer %d: %d weight matrices for %d channels", ErrShape, l.ID, len(l.dense), l.Channels)
		}
		for c, w := range l.dense {
			r, cols := w.Dims()
			if r != in.Rows*in.Cols || cols != l.OutputSide*l.OutputSide {
				return fmt.Errorf("%w: layer %d: channel %d weights are %dx%d, want %dx%d",
					ErrShape, l.ID, c, r, cols, in.Rows*in.Cols, l.OutputSide*l.OutputSide)
			}
		}
	}
	return nil
}

func (l *Layer) validateWindow(side int) error {
	if l.FilterSize <= 0 || l.Stride <= 0 {
		return fmt.Errorf("%w: layer %d: filter size %d, stride %d", ErrShape, l.ID, l.FilterSize, l.Stride)
	}
	if l.FilterSize > side {
		return fmt.Errorf("%w: layer %d: filter size %d exceeds input side %d", ErrShape, l.ID, l.FilterSize, side)
	}
	want := (side-l.FilterSize)/l.Stride + 1
	if l.OutputSide != want {
		return fmt.Errorf("%w: layer %d: output side %d, want (%d-%d)/%d+1 = %d",
			ErrShape, l.ID, l.OutputSide, side, l.FilterSize, l.Stride, want)
	}
	return nil
}

// DescribeWeights writes every weight row of the layer as "[ w0 w1 ... ]", one per line.
func (l *Layer) DescribeWeights(w io.Writer) error {
	mats := l.kernels
	if l.Kind == FullyConnected {
		mats = l.dense
	}
	var sb strings.Builder
	for _, m := range mats {
		r, _ := m.Dims()
		for i := 0; i < r; i++ {
			sb.WriteString("[ ")
			for _, v := range m.RawRowView(i) {
				fmt.Fprintf(&sb, "%g ", v)
			}
			sb.WriteString("]\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
