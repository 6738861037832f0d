package train

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql/tictactoe"
)

// lowestAgent always plays the lowest-numbered valid cell.
type lowestAgent struct {
	mark       tictactoe.Mark
	pending    bool
	rewards    []float64
	optimizes  int
	syncs      int
	resets     int
	minSamples int
}

func (a *lowestAgent) Observe(b tictactoe.Board, actions []int) int {
	return actions[0]
}

func (a *lowestAgent) ObserveOnTraining(b tictactoe.Board, actions []int) (int, error) {
	if a.pending {
		return 0, errors.New("pending")
	}
	a.pending = true
	return actions[0], nil
}

func (a *lowestAgent) TakeReward(reward float64, next tictactoe.Board, done bool) error {
	if !a.pending {
		return errors.New("nothing pending")
	}
	a.pending = false
	a.rewards = append(a.rewards, reward)
	return nil
}

func (a *lowestAgent) TrainNetwork() (float64, bool, error) {
	if len(a.rewards) < a.minSamples {
		return 0, false, nil
	}
	a.optimizes++
	return 0.25, true, nil
}

func (a *lowestAgent) UpdateTargetNetwork() { a.syncs++ }
func (a *lowestAgent) SetMark(m tictactoe.Mark) { a.mark = m }
func (a *lowestAgent) Epsilon() float64 { return 0 }
func (a *lowestAgent) Reset() { a.resets++; a.pending = false }
func (a *lowestAgent) WeightsBlob() ([]byte, error) { return []byte("weights"), nil }

// scriptedOpponent plays the given cells in order, skipping occupied ones.
type scriptedOpponent struct {
	moves []int
}

func (s *scriptedOpponent) Move(b tictactoe.Board, mark tictactoe.Mark) int {
	for len(s.moves) > 0 {
		idx := s.moves[0]
		s.moves = s.moves[1:]
		if b.IsValid(idx) {
			return idx
		}
	}
	return b.ValidMoves()[0]
}
