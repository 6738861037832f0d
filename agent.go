package dql

import (
	"math/rand"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/go-dql/nn"
	"github.com/timpalpant/go-dql/replay"
	"github.com/timpalpant/go-dql/tictactoe"
)

const numActions = tictactoe.NumCells

var (
	// ErrPendingTransition is returned by ObserveOnTraining when the
	// previous training observation has not been rewarded yet.
	ErrPendingTransition = errors.New("previous transition is still awaiting its reward")
	// ErrNoPendingTransition is returned by TakeReward without a
	// preceding ObserveOnTraining.
	ErrNoPendingTransition = errors.New("no transition is awaiting a reward")
)

// AgentState is the position of a DQLAgent in its observe/reward cycle.
type AgentState int

const (
	Idle AgentState = iota
	AwaitingOpponent
	Terminal
)

var agentStateStr = [...]string{
	"idle",
	"awaiting opponent",
	"terminal",
}

func (s AgentState) String() string {
	return agentStateStr[s]
}

// GreedyPolicy chooses the exploiting action for a board, given the
// training network's action values for it.
type GreedyPolicy interface {
	Choose(b tictactoe.Board, q []float64, actions []int) int
}

// DQLAgent implements Agent with a training network, a target network and
// an experience replay buffer. It is not safe for concurrent use.
type DQLAgent struct {
	params   Params
	mark     tictactoe.Mark
	training QNetwork
	target   QNetwork
	buffer   replay.Buffer
	explore  EpsilonGreedy
	greedy   GreedyPolicy
	rng      *rand.Rand

	steps   int
	state   AgentState
	pending replay.Transition
}

// New returns an agent playing the given mark, with freshly initialized
// networks shaped by params. The target network starts as a copy of the
// training network.
func New(params Params, mark tictactoe.Mark, buffer replay.Buffer) *DQLAgent {
	rng := rand.New(rand.NewSource(params.Seed))
	training := nn.NewMLP(params.Layers(), newOptimizer(params), rng)
	target := nn.NewMLP(params.Layers(), newOptimizer(params), rng)
	return NewWithNetworks(params, mark, training, target, buffer)
}

// NewWithNetworks returns an agent using the given networks, which must
// have identical architectures.
func NewWithNetworks(params Params, mark tictactoe.Mark, training, target QNetwork, buffer replay.Buffer) *DQLAgent {
	a := &DQLAgent{
		params:   params,
		mark:     mark,
		training: training,
		target:   target,
		buffer:   buffer,
		explore:  EpsilonGreedy{Epsilon: params.Epsilon},
		rng:      rand.New(rand.NewSource(params.Seed + 1)),
	}

	a.UpdateTargetNetwork()
	return a
}

func newOptimizer(params Params) nn.Optimizer {
	switch params.Optimizer {
	case RMSprop:
		return nn.NewRMSprop(params.LearningRate)
	case SGD:
		return &nn.SGD{LearningRate: params.LearningRate}
	}

	return nn.NewAdam(params.LearningRate)
}

// Params returns the configuration of the agent.
func (a *DQLAgent) Params() Params { return a.params }

// Mark returns the side the agent plays.
func (a *DQLAgent) Mark() tictactoe.Mark { return a.mark }

// SetMark changes the side the agent plays. Encodings are relative to
// the agent, so learned values carry over.
func (a *DQLAgent) SetMark(m tictactoe.Mark) { a.mark = m }

// Epsilon returns the current exploration probability.
func (a *DQLAgent) Epsilon() float64 { return a.explore.Epsilon }

// Steps returns the number of completed optimize steps.
func (a *DQLAgent) Steps() int { return a.steps }

// State returns the current position in the observe/reward cycle.
func (a *DQLAgent) State() AgentState { return a.state }

// Buffer returns the replay buffer of the agent.
func (a *DQLAgent) Buffer() replay.Buffer { return a.buffer }

// TrainingNetwork returns the network updated by gradient steps.
func (a *DQLAgent) TrainingNetwork() QNetwork { return a.training }

// TargetNetwork returns the network used for bootstrap targets.
func (a *DQLAgent) TargetNetwork() QNetwork { return a.target }

func (a *DQLAgent) encode(b tictactoe.Board) []float64 {
	return a.params.Encoding.Encode(b, a.mark)
}

// QValues returns the training network's action values for b.
func (a *DQLAgent) QValues(b tictactoe.Board) []float64 {
	return a.training.Predict([][]float64{a.encode(b)})[0]
}

// SetGreedyPolicy replaces the arg-max over action values used when the
// agent exploits. A nil policy restores the default.
func (a *DQLAgent) SetGreedyPolicy(p GreedyPolicy) { a.greedy = p }

func (a *DQLAgent) choose(b tictactoe.Board, q []float64, actions []int) int {
	if a.greedy != nil {
		return a.greedy.Choose(b, q, actions)
	}

	return Greedy(q, actions)
}

// Observe implements Agent.
func (a *DQLAgent) Observe(b tictactoe.Board, actions []int) int {
	return a.choose(b, a.QValues(b), actions)
}

// Value implements Valuer.
func (a *DQLAgent) Value(b tictactoe.Board) float64 {
	return floats.Max(a.QValues(b))
}

// ObserveOnTraining implements Agent.
func (a *DQLAgent) ObserveOnTraining(b tictactoe.Board, actions []int) (int, error) {
	if a.state == AwaitingOpponent {
		return 0, ErrPendingTransition
	}

	state := a.encode(b)
	q := a.training.Predict([][]float64{state})[0]
	var action int
	if a.explore.Explore(a.rng) {
		action = RandomAction(a.rng, len(q), actions)
	} else {
		action = a.choose(b, q, actions)
	}

	a.pending = replay.Transition{State: state, Action: action}
	a.state = AwaitingOpponent
	return action, nil
}

// TakeReward implements Agent.
func (a *DQLAgent) TakeReward(reward float64, next tictactoe.Board, done bool) error {
	if a.state != AwaitingOpponent {
		return ErrNoPendingTransition
	}

	a.pending.Reward = reward
	a.pending.NextState = a.encode(next)
	a.pending.Done = done
	a.buffer.Add(a.pending)
	a.pending = replay.Transition{}

	if done {
		a.state = Terminal
	} else {
		a.state = Idle
	}

	return nil
}

// Store adds a complete transition to the replay buffer directly,
// bypassing the observe/reward cycle.
func (a *DQLAgent) Store(t replay.Transition) {
	a.buffer.Add(t)
}

// Reset abandons any pending transition and returns the agent to Idle.
func (a *DQLAgent) Reset() {
	a.pending = replay.Transition{}
	a.state = Idle
}

// TrainNetwork implements Agent.
func (a *DQLAgent) TrainNetwork() (float64, bool, error) {
	minSize := a.params.BatchSize
	if a.params.MinExperience > minSize {
		minSize = a.params.MinExperience
	}

	if a.buffer.Len() < minSize {
		return 0, false, nil
	}

	var batch []replay.Transition
	var err error
	if a.params.CombinedReplay {
		batch, err = a.buffer.SampleRecent(a.rng, a.params.BatchSize)
	} else {
		batch, err = a.buffer.Sample(a.rng, a.params.BatchSize)
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "sampling replay batch")
	}

	states, actions, targets := a.targets(batch)
	loss := a.training.Train(states, actions, targets)

	a.explore.Decay(a.params.EpsilonDecay, a.params.EpsilonMin)
	a.steps++
	if a.params.TargetUpdate > 0 && a.steps%a.params.TargetUpdate == 0 {
		a.UpdateTargetNetwork()
	}

	glog.V(2).Infof("[step=%d] loss=%.5f epsilon=%.4f", a.steps, loss, a.explore.Epsilon)
	return loss, true, nil
}

// targets computes the bootstrapped regression targets for a batch:
// the reward alone for terminal transitions, and otherwise the reward plus
// the discounted best target-network value of the next state.
func (a *DQLAgent) targets(batch []replay.Transition) ([][]float64, []int, []float64) {
	states := make([][]float64, len(batch))
	nextStates := make([][]float64, len(batch))
	actions := make([]int, len(batch))
	for i, t := range batch {
		states[i] = t.State
		nextStates[i] = t.NextState
		actions[i] = t.Action
	}

	nextQ := a.target.Predict(nextStates)
	targets := make([]float64, len(batch))
	for i, t := range batch {
		if t.Done {
			targets[i] = t.Reward
		} else {
			targets[i] = t.Reward + a.params.Gamma*floats.Max(nextQ[i])
		}
	}

	return states, actions, targets
}

// UpdateTargetNetwork implements Agent.
func (a *DQLAgent) UpdateTargetNetwork() {
	if err := a.target.SetWeights(a.training.Weights()); err != nil {
		// Both networks are constructed with the same shape.
		panic(err)
	}

	glog.V(1).Infof("[step=%d] Synchronized target network", a.steps)
}
