package dql

import (
	"github.com/timpalpant/go-dql/tictactoe"
)

// Encoding selects one of the supported Encoders.
type Encoding int

const (
	// RawEncoding is one signed value per cell: +1 own, -1 opponent, 0 empty.
	RawEncoding Encoding = iota
	// OneHotEncoding is two bits per cell: (own, opponent).
	OneHotEncoding
)

var encodingStr = [...]string{
	"raw",
	"onehot",
}

func (e Encoding) String() string {
	return encodingStr[e]
}

// Encode implements Encoder.
func (e Encoding) Encode(b tictactoe.Board, self tictactoe.Mark) []float64 {
	result := make([]float64, e.Size())
	for i, m := range b {
		switch e {
		case RawEncoding:
			result[i] = float64(m * self)
		case OneHotEncoding:
			if m == self {
				result[2*i] = 1
			} else if m == self.Opponent() {
				result[2*i+1] = 1
			}
		}
	}

	return result
}

// Size implements Encoder.
func (e Encoding) Size() int {
	if e == OneHotEncoding {
		return 2 * tictactoe.NumCells
	}

	return tictactoe.NumCells
}
