// Package dql implements a deep Q-learning agent for tic-tac-toe, with
// experience replay and a periodically synchronized target network.
package dql

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/go-dql/tictactoe"
)

// QNetwork is a function approximator from encoded states to one value
// per action.
type QNetwork interface {
	// Predict returns the action values for each state in the batch.
	Predict(states [][]float64) [][]float64
	// Train takes one gradient step on the mean squared error between
	// the value of actions[i] in states[i] and targets[i], returning the loss.
	Train(states [][]float64, actions []int, targets []float64) float64
	// Weights returns a copy of all trainable parameters.
	Weights() map[string]*mat.Dense
	// SetWeights overwrites all trainable parameters, or none of them
	// if the shapes do not match.
	SetWeights(map[string]*mat.Dense) error
	// MarshalTo writes the architecture and weights to w.
	MarshalTo(w io.Writer) error
	// LoadFrom replaces the weights with those read from r, failing
	// if the stored architecture differs.
	LoadFrom(r io.Reader) error
}

// Agent is the capability set shared by all agent variants.
type Agent interface {
	// Observe returns the greedy action for the board among actions.
	// If actions is nil, all cells are candidates.
	Observe(b tictactoe.Board, actions []int) int
	// ObserveOnTraining returns an epsilon-greedy action and remembers
	// the (state, action) pair until TakeReward is called.
	ObserveOnTraining(b tictactoe.Board, actions []int) (int, error)
	// TakeReward completes the pending transition and stores it for replay.
	TakeReward(reward float64, next tictactoe.Board, done bool) error
	// TrainNetwork performs one optimize step if enough experience has
	// been collected. trained is false if the step was skipped.
	TrainNetwork() (loss float64, trained bool, err error)
	// UpdateTargetNetwork copies the training weights into the target network.
	UpdateTargetNetwork()
}

// Valuer scores a board by the largest action value of the current network,
// from the point of view of the agent.
type Valuer interface {
	Value(b tictactoe.Board) float64
}

// Encoder converts a board into a network input vector, from the point
// of view of the given side.
type Encoder interface {
	Encode(b tictactoe.Board, self tictactoe.Mark) []float64
	Size() int
}
