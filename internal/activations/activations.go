// Package activations provides the pointwise nonlinearities applied after a layer transform.
package activations

import (
	"errors"
	"fmt"
	"math"

	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// ErrInvalidKind is returned for activation kinds other than Sigmoid and Tanh.
var ErrInvalidKind = errors.New("invalid activation type")

// Activation is an activation function.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64
}

// Kind selects the activation of a layer, as written in the structure file.
type Kind int

const (
	// KindSigmoid selects 1 / (1 + e^-x).
	KindSigmoid Kind = 0
	// KindTanh selects the hyperbolic tangent.
	KindTanh Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindSigmoid:
		return "sigmoid"
	case KindTanh:
		return "tanh"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k names a known activation.
func (k Kind) Valid() bool {
	return k == KindSigmoid || k == KindTanh
}

// Func returns the activation function for k.
func (k Kind) Func() (Activation, error) {
	switch k {
	case KindSigmoid:
		return Sigmoid{}, nil
	case KindTanh:
		return Tanh{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
}

// Sigmoid activation function.
type Sigmoid struct{}

// Activate computes 1 / (1 + e^-x)
func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Apply adds bias to every element of in and applies the activation selected by kind.
// The input is not modified. For an invalid kind the returned tensor holds the input
// values unactivated, alongside an error wrapping ErrInvalidKind; callers that keep
// going after a bad kind may use it as is.
func Apply(in *tensor.Tensor, bias float64, kind Kind) (*tensor.Tensor, error) {
	out := in.Clone()
	act, err := kind.Func()
	if err != nil {
		return out, err
	}
	for c := 0; c < out.Shape().Channels; c++ {
		p := out.Plane(c)
		p.Apply(func(_, _ int, v float64) float64 {
			return act.Activate(v + bias)
		}, p)
	}
	return out, nil
}
