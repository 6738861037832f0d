package tictactoe

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedMove is returned by ParseMove for input that is not
// two comma-separated integers.
var ErrMalformedMove = errors.New("malformed move")

// String implements fmt.Stringer, rendering the board as a 3x3 grid.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		sb.WriteString("|")
		for col := 0; col < Size; col++ {
			sb.WriteString(" ")
			sb.WriteString(b[Index(row, col)].String())
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParseMove parses "row, col" (zero-based) into a cell index.
func ParseMove(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return 0, errors.Wrapf(ErrMalformedMove, "%q: expected row, column", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedMove, "%q: bad row", s)
	}

	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedMove, "%q: bad column", s)
	}

	if row < 0 || row >= Size || col < 0 || col >= Size {
		return 0, errors.Wrapf(ErrInvalidMove, "(%d, %d) is off the board", row, col)
	}

	return Index(row, col), nil
}
