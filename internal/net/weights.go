package net

import (
	"errors"
	"fmt"
)

// ErrStreamExhausted is returned when a layer asks for more weight rows than remain.
var ErrStreamExhausted = errors.New("weight stream exhausted")

// WeightStream is a read cursor over the rows of a weight file.
// The rows themselves are never modified.
type WeightStream struct {
	rows [][]float64
	pos  int
}

// NewWeightStream creates a stream positioned at the first row.
func NewWeightStream(rows [][]float64) *WeightStream {
	return &WeightStream{rows: rows}
}

// Next returns the next n rows and advances past them.
func (s *WeightStream) Next(n int) ([][]float64, error) {
	if err := s.check(n); err != nil {
		return nil, err
	}
	rows := s.rows[s.pos : s.pos+n]
	s.pos += n
	return rows, nil
}

// Remaining returns every row not yet consumed, without advancing.
func (s *WeightStream) Remaining() [][]float64 {
	return s.rows[s.pos:]
}

// Advance skips n rows.
func (s *WeightStream) Advance(n int) error {
	if err := s.check(n); err != nil {
		return err
	}
	s.pos += n
	return nil
}

// Offset is the index of the next unread row.
func (s *WeightStream) Offset() int {
	return s.pos
}

// Len is the number of unread rows.
func (s *WeightStream) Len() int {
	return len(s.rows) - s.pos
}

func (s *WeightStream) check(n int) error {
	if n < 0 {
		return fmt.Errorf("negative row count %d", n)
	}
	if n > s.Len() {
		return fmt.Errorf("%w: want %d rows at row %d, %d left", ErrStreamExhausted, n, s.pos, s.Len())
	}
	return nil
}
