package train

import (
	"fmt"

	"github.com/timpalpant/go-dql/tictactoe"
)

// Stats accumulates episode outcomes, from the agent's point of view.
type Stats struct {
	Episodes int
	Wins     int
	Losses   int
	Draws    int

	Epsilon          float64
	CumulativeReward float64
	// RewardHistory is CumulativeReward at the end of each episode.
	RewardHistory []float64
	// LossHistory is the loss of each optimize step.
	LossHistory []float64
}

// Record adds the outcome of a finished episode played as agent.
func (s *Stats) Record(o tictactoe.Outcome, agent tictactoe.Mark) {
	s.Episodes++
	switch {
	case o == tictactoe.Draw:
		s.Draws++
	case o.Winner() == agent:
		s.Wins++
	default:
		s.Losses++
	}

	s.RewardHistory = append(s.RewardHistory, s.CumulativeReward)
}

// AddLoss records the loss of one optimize step.
func (s *Stats) AddLoss(loss float64) {
	s.LossHistory = append(s.LossHistory, loss)
}

// WinRate is the fraction of recorded episodes that the agent won.
func (s *Stats) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}

	return float64(s.Wins) / float64(s.Episodes)
}

// MeanLoss returns the mean of the losses recorded after the first skip.
func (s *Stats) MeanLoss(skip int) float64 {
	if skip >= len(s.LossHistory) {
		return 0
	}

	var sum float64
	for _, l := range s.LossHistory[skip:] {
		sum += l
	}
	return sum / float64(len(s.LossHistory)-skip)
}

// String implements fmt.Stringer.
func (s *Stats) String() string {
	return fmt.Sprintf("episodes=%d wins=%d losses=%d draws=%d win_rate=%.2f%% epsilon=%.3f",
		s.Episodes, s.Wins, s.Losses, s.Draws, 100*s.WinRate(), s.Epsilon)
}
