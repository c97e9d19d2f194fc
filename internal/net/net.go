// Package net provides the network driver: weight assignment and the forward pass.
package net

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/keoniburns/Convolutional-neural-network/internal/layer"
	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// ErrNoInputLayer is returned when a network does not start with an Input layer.
var ErrNoInputLayer = errors.New("network must start with an input layer")

// Options configures a Network.
type Options struct {
	// Logger receives non-fatal diagnostics. Defaults to log.Default().
	Logger *log.Logger

	// PerChannelDense gives every FullyConnected output channel its own block of weight
	// rows instead of sharing one block across channels.
	PerChannelDense bool

	// Validate checks every layer's shape against its input before each sample.
	Validate bool

	// SkipDenseRows moves the weight stream past the rows a FullyConnected layer read
	// instead of past NumFilters rows.
	SkipDenseRows bool
}

// Network is an ordered sequence of layers, the first being the Input layer.
type Network struct {
	layers []*layer.Layer
	opts   Options
	logger *log.Logger
}

// New creates a network from structure configs in declaration order.
func New(configs []layer.Config, opts Options) (*Network, error) {
	if len(configs) == 0 || configs[0].Kind != layer.Input {
		return nil, ErrNoInputLayer
	}
	layers := make([]*layer.Layer, len(configs))
	for i, cfg := range configs {
		layers[i] = layer.New(cfg)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Network{layers: layers, opts: opts, logger: logger}, nil
}

// Layers returns the network layers.
func (n *Network) Layers() []*layer.Layer {
	return n.layers
}

// AssignWeights hands weight rows to the layers in declaration order.
// A Convolution layer takes one row per filter. A FullyConnected layer reads the
// remaining rows as one block with one row per output position of the previous layer,
// then the stream moves past NumFilters rows, or past the rows it read when
// SkipDenseRows is set. Other layers take nothing.
func (n *Network) AssignWeights(ws *WeightStream) error {
	for i, l := range n.layers {
		switch l.Kind {
		case layer.Convolution:
			rows, err := ws.Next(l.NumFilters)
			if err != nil {
				return fmt.Errorf("layer %d: %w", l.ID, err)
			}
			for _, row := range rows {
				if err := l.BuildKernelWeights(row); err != nil {
					return err
				}
			}
		case layer.FullyConnected:
			if i == 0 {
				return ErrNoInputLayer
			}
			prev := n.layers[i-1].OutputSide
			positions := prev * prev

			var err error
			if n.opts.PerChannelDense {
				err = l.BuildDenseWeightsPerChannel(positions, ws.Remaining())
			} else {
				err = l.BuildDenseWeights(positions, ws.Remaining())
			}
			if err != nil {
				return err
			}
			skip := l.NumFilters
			if n.opts.SkipDenseRows {
				skip = l.DenseRows(positions, n.opts.PerChannelDense)
			}
			if err := ws.Advance(skip); err != nil {
				return fmt.Errorf("layer %d: %w", l.ID, err)
			}
		}
	}
	return nil
}

// ValidateShapes checks the whole layer sequence against an input of shape in.
func (n *Network) ValidateShapes(in tensor.Shape) error {
	shape := in
	for _, l := range n.layers {
		if err := l.Validate(shape); err != nil {
			return err
		}
		shape = l.OutputShape(shape)
	}
	return nil
}

// Forward threads in through every layer after the Input layer. Each transform is
// followed by the layer activation, except for pooling layers. An invalid activation
// kind is logged and the unactivated values are passed on.
func (n *Network) Forward(in *tensor.Tensor) *tensor.Tensor {
	x := in
	for _, l := range n.layers[1:] {
		x = l.Transform(x)
		if l.Pooling() {
			continue
		}
		var err error
		if x, err = l.Activate(x); err != nil {
			n.logger.Printf("%v", err)
		}
	}
	return x
}

// Run feeds every sample through the network in order and passes each result to emit.
// A result is cleared once emit returns.
func (n *Network) Run(samples [][]float64, emit func(i int, out *tensor.Tensor) error) error {
	for i, sample := range samples {
		out, err := n.forwardSample(sample)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		err = emit(i, out)
		out.Clear()
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the network output for every sample.
func (n *Network) Predict(samples [][]float64) ([]*tensor.Tensor, error) {
	outs := make([]*tensor.Tensor, 0, len(samples))
	for i, sample := range samples {
		out, err := n.forwardSample(sample)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (n *Network) forwardSample(sample []float64) (*tensor.Tensor, error) {
	in, err := tensor.FromSquare(sample)
	if err != nil {
		return nil, err
	}
	if n.opts.Validate {
		if err := n.ValidateShapes(in.Shape()); err != nil {
			return nil, err
		}
	}
	return n.Forward(in), nil
}

// Describe logs a one-line summary of every layer, followed by its weights when
// withWeights is set.
func (n *Network) Describe(withWeights bool) {
	for _, l := range n.layers {
		n.logger.Print(l.Config.String())
		if !withWeights || !l.Weighted() {
			continue
		}
		var sb strings.Builder
		if err := l.DescribeWeights(&sb); err == nil && sb.Len() > 0 {
			n.logger.Print(strings.TrimSuffix(sb.String(), "\n"))
		}
	}
}
