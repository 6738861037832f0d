package train

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql/tictactoe"
)

// ErrGameOver is returned by Step after the episode has ended.
var ErrGameOver = errors.New("game is over")

// Environment is a game against a fixed opponent, seen from the agent's
// side: each Step plays the agent's move and then the opponent's reply.
// Cross always moves first.
type Environment struct {
	Opponent   Opponent
	DrawReward float64

	board     tictactoe.Board
	agentMark tictactoe.Mark
	done      bool
}

// NewEnvironment returns an environment against the given opponent.
func NewEnvironment(opponent Opponent, drawReward float64) *Environment {
	return &Environment{
		Opponent:   opponent,
		DrawReward: drawReward,
		agentMark:  tictactoe.Cross,
	}
}

// Reset starts a new game. If agentFirst is false the agent plays Nought
// and the opponent's opening move has already been made.
func (e *Environment) Reset(agentFirst bool) (tictactoe.Board, error) {
	e.board = tictactoe.Board{}
	e.done = false
	e.agentMark = tictactoe.Cross
	if !agentFirst {
		e.agentMark = tictactoe.Nought
		if err := e.opponentMove(); err != nil {
			return e.board, err
		}
	}

	return e.board, nil
}

// Board returns the current position.
func (e *Environment) Board() tictactoe.Board { return e.board }

// AgentMark returns the side the agent plays in the current game.
func (e *Environment) AgentMark() tictactoe.Mark { return e.agentMark }

// Outcome returns the current result of the game.
func (e *Environment) Outcome() tictactoe.Outcome { return e.board.Winner() }

// Step plays the agent's action followed, unless the game ended, by the
// opponent's reply. The reward is from the agent's point of view and is
// non-zero only when the game ends.
func (e *Environment) Step(action int) (tictactoe.Board, float64, bool, error) {
	if e.done {
		return e.board, 0, true, ErrGameOver
	}

	next, err := e.board.ApplyMove(action, e.agentMark)
	if err != nil {
		return e.board, 0, false, errors.Wrap(err, "agent move")
	}
	e.board = next

	if o := e.board.Winner(); o.Terminal() {
		e.done = true
		return e.board, o.RewardFor(e.agentMark, e.DrawReward), true, nil
	}

	if err := e.opponentMove(); err != nil {
		return e.board, 0, false, err
	}

	o := e.board.Winner()
	e.done = o.Terminal()
	return e.board, o.RewardFor(e.agentMark, e.DrawReward), e.done, nil
}

func (e *Environment) opponentMove() error {
	mark := e.agentMark.Opponent()
	idx := e.Opponent.Move(e.board, mark)
	next, err := e.board.ApplyMove(idx, mark)
	if err != nil {
		return errors.Wrap(err, "opponent move")
	}

	e.board = next
	return nil
}
