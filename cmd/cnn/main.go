// Command cnn runs a convolutional network forward pass over every sample of an
// input file and prints one line of output values per sample.
//
// Usage:
//
//	cnn [flags] <input file> <weight file> <structure file>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/keoniburns/Convolutional-neural-network/cnn"
	"github.com/keoniburns/Convolutional-neural-network/internal/net"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cnn: ")

	precision := flag.Int("precision", net.DefaultPrecision, "decimal places per output value")
	perChannel := flag.Bool("per-channel", false, "read distinct fully connected weights for every output channel")
	skipDense := flag.Bool("skip-dense-rows", false, "move past the weight rows a fully connected layer read instead of its filter count")
	validate := flag.Bool("validate", false, "check layer shapes against each sample before running it")
	describe := flag.Bool("describe", false, "log every layer and its weights before running")
	linePerChannel := flag.Bool("line-per-channel", false, "end an output line after every channel")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <input file> <weight file> <structure file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := cnn.Config{
		InputFile:     flag.Arg(0),
		WeightsFile:   flag.Arg(1),
		StructureFile: flag.Arg(2),
		Options: cnn.Options{
			Logger:          log.Default(),
			PerChannelDense: *perChannel,
			Validate:        *validate,
			SkipDenseRows:   *skipDense,
		},
		Format: cnn.Format{
			Precision:      *precision,
			LinePerChannel: *linePerChannel,
		},
		Describe: *describe,
	}

	if err := cnn.Run(cfg, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
