// Package cnn runs the forward pass of a small convolutional network described by
// an input file, a weight file and a layer-structure file.
package cnn

import (
	"bufio"
	"io"

	"github.com/keoniburns/Convolutional-neural-network/internal/layer"
	"github.com/keoniburns/Convolutional-neural-network/internal/net"
	"github.com/keoniburns/Convolutional-neural-network/internal/tensor"
)

// Re-export common types for easier access
type (
	Tensor      = tensor.Tensor
	LayerConfig = layer.Config
	Network     = net.Network
	Options     = net.Options
	Format      = net.Format
)

// DefaultFormat prints one line per sample with 16 decimal places.
var DefaultFormat = net.DefaultFormat

// Config names the three input files and how to run them.
type Config struct {
	InputFile     string
	WeightsFile   string
	StructureFile string

	Options Options
	Format  Format

	// Describe logs every layer, and its weights, before the forward pass.
	Describe bool
}

// Load reads the structure and weight files and returns a network ready to run.
func Load(structureFile, weightsFile string, opts Options) (*Network, error) {
	configs, err := net.ReadStructure(structureFile)
	if err != nil {
		return nil, err
	}
	n, err := net.New(configs, opts)
	if err != nil {
		return nil, err
	}
	weights, err := net.ReadWeights(weightsFile)
	if err != nil {
		return nil, err
	}
	if err := n.AssignWeights(net.NewWeightStream(weights)); err != nil {
		return nil, err
	}
	return n, nil
}

// Run loads the network, feeds it every sample of the input file and writes one
// formatted result per sample to w.
func Run(cfg Config, w io.Writer) error {
	samples, err := net.ReadInput(cfg.InputFile)
	if err != nil {
		return err
	}
	n, err := Load(cfg.StructureFile, cfg.WeightsFile, cfg.Options)
	if err != nil {
		return err
	}
	if cfg.Describe {
		n.Describe(true)
	}

	bw := bufio.NewWriter(w)
	err = n.Run(samples, func(_ int, out *tensor.Tensor) error {
		return net.WriteTensor(bw, out, cfg.Format)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
