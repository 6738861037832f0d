package dql

// OptimizerKind selects the gradient descent variant of the training network.
type OptimizerKind int

const (
	Adam OptimizerKind = iota
	RMSprop
	SGD
)

// Params are the configuration options for a DQLAgent.
// The zero value is not usable; start from DQNParams or CERParams.
type Params struct {
	Encoding     Encoding
	Hidden       []int // Sizes of the hidden layers.
	Optimizer    OptimizerKind
	LearningRate float64

	Gamma        float64 // Discount factor.
	Epsilon      float64 // Initial exploration probability.
	EpsilonMin   float64 // Floor of the exploration probability.
	EpsilonDecay float64 // Multiplicative decay applied after each optimize call.

	Capacity       int  // Replay buffer capacity.
	BatchSize      int  // Transitions per optimize step.
	MinExperience  int  // Optimize is a no-op below this many stored transitions.
	CombinedReplay bool // Always include the newest transition in each batch.

	// Copy training weights to the target network every TargetUpdate
	// optimize steps. Zero disables the agent-side schedule, leaving
	// synchronization to the caller.
	TargetUpdate int

	// Reward for a drawn game, from the agent's point of view.
	DrawReward float64

	Seed int64
}

// DQNParams is the plain deep Q-learning configuration: one-hot input, a
// 128-64 network trained with Adam, and a target sync every 10 optimize steps.
func DQNParams() Params {
	return Params{
		Encoding:      OneHotEncoding,
		Hidden:        []int{128, 64},
		Optimizer:     Adam,
		LearningRate:  1e-3,
		Gamma:         0.99,
		Epsilon:       1.0,
		EpsilonMin:    0.01,
		EpsilonDecay:  0.995,
		Capacity:      10000,
		BatchSize:     64,
		MinExperience: 64,
		TargetUpdate:  10,
		DrawReward:    0.5,
	}
}

// CERParams is the combined experience replay configuration: raw input, a
// 128-128 network trained with RMSprop, and a large replay buffer. The target
// network is synchronized by the training loop every 500 environment steps,
// so TargetUpdate is zero.
func CERParams() Params {
	return Params{
		Encoding:       RawEncoding,
		Hidden:         []int{128, 128},
		Optimizer:      RMSprop,
		LearningRate:   2.5e-4,
		Gamma:          0.7,
		Epsilon:        1.0,
		EpsilonMin:     0.1,
		EpsilonDecay:   0.9999,
		Capacity:       1 << 20,
		BatchSize:      64,
		MinExperience:  4096,
		CombinedReplay: true,
		DrawReward:     0.1,
	}
}

// Layers returns the full network shape for these params.
func (p Params) Layers() []int {
	layers := []int{p.Encoding.Size()}
	layers = append(layers, p.Hidden...)
	return append(layers, numActions)
}
