package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/keoniburns/Convolutional-neural-network/internal/activations"
	"github.com/keoniburns/Convolutional-neural-network/internal/layer"
)

// ErrFieldCount is returned for structure lines that do not have all nine fields.
var ErrFieldCount = errors.New("wrong number of fields")

// structureFields is the field count of a structure line:
// id kind numFilters filterSize stride outputSide channels activation bias
const structureFields = 9

// maxLineSize bounds a single line; dense weight rows can be long.
const maxLineSize = 64 << 20

// ReadInput loads one sample per line of integer pixel values.
func ReadInput(filename string) ([][]float64, error) {
	return readFile(filename, ParseInput)
}

// ReadWeights loads rows of floating-point weights, one row per line.
func ReadWeights(filename string) ([][]float64, error) {
	return readFile(filename, ParseWeights)
}

// ReadStructure loads the layer configs, one layer per line, in network order.
func ReadStructure(filename string) ([]layer.Config, error) {
	return readFile(filename, ParseStructure)
}

func readFile[T any](filename string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(filename)
	if err != nil {
		return zero, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	v, err := parse(file)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}

// ParseInput parses whitespace-separated integers, one sample per line.
func ParseInput(r io.Reader) ([][]float64, error) {
	return parseRows(r, func(tok string) (float64, error) {
		v, err := strconv.Atoi(tok)
		return float64(v), err
	})
}

// ParseWeights parses whitespace-separated floats, one row per line.
func ParseWeights(r io.Reader) ([][]float64, error) {
	return parseRows(r, func(tok string) (float64, error) {
		return strconv.ParseFloat(tok, 64)
	})
}

// ParseStructure parses layer configs, one per line.
func ParseStructure(r io.Reader) ([]layer.Config, error) {
	var configs []layer.Config
	err := scanLines(r, func(line int, fields []string) error {
		if len(fields) != structureFields {
			return fmt.Errorf("line %d: %w: got %d, want %d", line, ErrFieldCount, len(fields), structureFields)
		}
		cfg, err := parseConfig(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		configs = append(configs, cfg)
		return nil
	})
	return configs, err
}

func parseConfig(fields []string) (layer.Config, error) {
	var cfg layer.Config
	kind, err := layer.ParseKind(fields[1])
	if err != nil {
		return cfg, err
	}
	cfg.Kind = kind

	ints := []*int{&cfg.ID, nil, &cfg.NumFilters, &cfg.FilterSize, &cfg.Stride, &cfg.OutputSide, &cfg.Channels}
	for i, dst := range ints {
		if dst == nil {
			continue
		}
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return cfg, fmt.Errorf("field %d: %w", i+1, err)
		}
		*dst = v
	}

	act, err := strconv.Atoi(fields[7])
	if err != nil {
		return cfg, fmt.Errorf("field 8: %w", err)
	}
	cfg.Activation = activations.Kind(act)

	if cfg.Bias, err = strconv.ParseFloat(fields[8], 64); err != nil {
		return cfg, fmt.Errorf("field 9: %w", err)
	}
	return cfg, nil
}

func parseRows(r io.Reader, parse func(string) (float64, error)) ([][]float64, error) {
	var rows [][]float64
	err := scanLines(r, func(line int, fields []string) error {
		row := make([]float64, len(fields))
		for j, tok := range fields {
			v, err := parse(tok)
			if err != nil {
				return fmt.Errorf("line %d, token %d: %w", line, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// scanLines calls fn with the whitespace-separated fields of every non-blank line.
// Line numbers start at 1.
func scanLines(r io.Reader, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}
