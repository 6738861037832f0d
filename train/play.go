package train

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/tictactoe"
)

// Play runs an interactive game between agent and a human reading moves
// as "row, col" lines from r. The agent must already be set up to play
// agentMark. Invalid input is reported to w and the human is asked again.
func Play(r io.Reader, w io.Writer, agent dql.Agent, agentMark tictactoe.Mark) (tictactoe.Outcome, error) {
	scanner := bufio.NewScanner(r)
	var b tictactoe.Board
	toMove := tictactoe.Cross
	for {
		fmt.Fprint(w, b)
		outcome := b.Winner()
		if outcome.Terminal() {
			fmt.Fprintln(w, result(outcome, agentMark))
			return outcome, nil
		}

		var idx int
		if toMove == agentMark {
			idx = agent.Observe(b, b.ValidMoves())
			row, col := tictactoe.RowCol(idx)
			fmt.Fprintf(w, "Agent plays %d, %d\n", row, col)
		} else {
			var err error
			idx, err = readMove(scanner, w, b)
			if err != nil {
				return tictactoe.InProgress, err
			}
		}

		next, err := b.ApplyMove(idx, toMove)
		if err != nil {
			return tictactoe.InProgress, errors.Wrapf(err, "%v move", toMove)
		}
		b = next
		toMove = toMove.Opponent()
	}
}

func readMove(scanner *bufio.Scanner, w io.Writer, b tictactoe.Board) (int, error) {
	for {
		fmt.Fprint(w, "Enter your move (row, column): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return -1, errors.Wrap(err, "reading move")
			}
			return -1, io.ErrUnexpectedEOF
		}

		idx, err := tictactoe.ParseMove(scanner.Text())
		if err != nil {
			fmt.Fprintln(w, "Invalid input:", err)
			continue
		}

		if !b.IsValid(idx) {
			fmt.Fprintln(w, "Invalid move, try again.")
			continue
		}

		return idx, nil
	}
}

func result(o tictactoe.Outcome, agentMark tictactoe.Mark) string {
	switch {
	case o == tictactoe.Draw:
		return "It's a draw!"
	case o.Winner() == agentMark:
		return "Agent wins!"
	default:
		return "You win!"
	}
}
