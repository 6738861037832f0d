package train

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/tictactoe"
)

// Learner is an agent that can be trained by Train.
type Learner interface {
	dql.Agent
	SetMark(tictactoe.Mark)
	Epsilon() float64
	Reset()
}

// Checkpointer persists agent weights at the end of an episode.
type Checkpointer interface {
	SaveCheckpoint(episode int, weights []byte) error
}

// Snapshotter is implemented by agents whose weights can be checkpointed.
type Snapshotter interface {
	WeightsBlob() ([]byte, error)
}

// Config controls a training run.
type Config struct {
	Episodes int
	// StartEpisode is the number of episodes already played by a resumed
	// run. Episodes are numbered from StartEpisode+1 in logs and checkpoints.
	StartEpisode int
	// AgentFirst selects whether the agent plays Cross.
	AgentFirst bool
	// Tau synchronizes the target network every Tau environment steps.
	// Zero leaves synchronization to the agent.
	Tau int
	// LogEvery logs running statistics every LogEvery episodes.
	LogEvery int
	// CheckpointEvery saves the weights every CheckpointEvery episodes
	// if Checkpointer is set.
	CheckpointEvery int
	Checkpointer    Checkpointer
}

// Train plays cfg.Episodes games in env, storing every agent move
// as a transition and attempting one optimize step after each.
// Results are accumulated into stats.
func Train(agent Learner, env *Environment, cfg Config, stats *Stats) error {
	envSteps, lastLog := 0, len(stats.LossHistory)
	for ep := cfg.StartEpisode + 1; ep <= cfg.StartEpisode+cfg.Episodes; ep++ {
		state, err := env.Reset(cfg.AgentFirst)
		if err != nil {
			return errors.Wrapf(err, "episode %d", ep)
		}
		agent.SetMark(env.AgentMark())
		agent.Reset()

		for done := false; !done; {
			action, err := agent.ObserveOnTraining(state, state.ValidMoves())
			if err != nil {
				return errors.Wrapf(err, "episode %d", ep)
			}

			next, reward, d, err := env.Step(action)
			if err != nil {
				return errors.Wrapf(err, "episode %d", ep)
			}

			if err := agent.TakeReward(reward, next, d); err != nil {
				return errors.Wrapf(err, "episode %d", ep)
			}

			loss, trained, err := agent.TrainNetwork()
			if err != nil {
				return errors.Wrapf(err, "episode %d", ep)
			}
			if trained {
				stats.AddLoss(loss)
			}

			envSteps++
			if cfg.Tau > 0 && envSteps%cfg.Tau == 0 {
				agent.UpdateTargetNetwork()
			}

			stats.CumulativeReward += reward
			state, done = next, d
		}

		stats.Record(env.Outcome(), env.AgentMark())
		stats.Epsilon = agent.Epsilon()

		if cfg.LogEvery > 0 && ep%cfg.LogEvery == 0 {
			glog.Infof("[episode=%d] %v mean_loss=%.5f", ep, stats, stats.MeanLoss(lastLog))
			lastLog = len(stats.LossHistory)
		}

		if cfg.Checkpointer != nil && cfg.CheckpointEvery > 0 && ep%cfg.CheckpointEvery == 0 {
			if err := checkpoint(agent, cfg.Checkpointer, ep); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkpoint(agent Learner, c Checkpointer, episode int) error {
	s, ok := agent.(Snapshotter)
	if !ok {
		return errors.Errorf("agent %T does not support checkpoints", agent)
	}

	blob, err := s.WeightsBlob()
	if err != nil {
		return errors.Wrapf(err, "encoding weights at episode %d", episode)
	}

	if err := c.SaveCheckpoint(episode, blob); err != nil {
		return errors.Wrapf(err, "saving checkpoint at episode %d", episode)
	}

	glog.V(1).Infof("[episode=%d] Saved checkpoint (%d bytes)", episode, len(blob))
	return nil
}
