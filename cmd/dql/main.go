// Binary dql trains, evaluates and plays a deep Q-learning tic-tac-toe agent.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/ldbstore"
	"github.com/timpalpant/go-dql/minimax"
	"github.com/timpalpant/go-dql/rdbstore"
	"github.com/timpalpant/go-dql/replay"
	"github.com/timpalpant/go-dql/tictactoe"
	"github.com/timpalpant/go-dql/train"
)

var (
	mode            = flag.String("mode", "train", "one of train, eval or play")
	variant         = flag.String("variant", "dqn", "hyperparameter set: dqn or cer")
	episodes        = flag.Int("episodes", 10000, "number of training episodes")
	evalEpisodes    = flag.Int("eval_episodes", 100, "number of evaluation games")
	opponent        = flag.String("opponent", "", "training opponent: random, heuristic, minimax or hybrid (default depends on -variant)")
	evalOpponents   = flag.String("eval_opponents", "", "comma-separated evaluation opponents (default depends on -variant)")
	agentFirst      = flag.Bool("agent_first", true, "agent plays X and moves first")
	guided          = flag.Bool("guided", false, "choose greedy moves by depth-limited search over Q-values")
	weightsPath     = flag.String("weights", "", "file to load weights from and save them to")
	replayDB        = flag.String("replay_db", "", "LevelDB directory for the replay buffer (in memory if empty)")
	checkpointDB    = flag.String("checkpoint_db", "", "RocksDB directory for periodic weight checkpoints")
	checkpointEvery = flag.Int("checkpoint_every", 1000, "episodes between checkpoints")
	resume          = flag.Bool("resume", false, "start from the latest checkpoint in -checkpoint_db")
	logEvery        = flag.Int("log_every", 100, "episodes between progress logs")
	seed            = flag.Int64("seed", 1, "random seed")
)

type config struct {
	params        dql.Params
	opponent      string
	tau           int
	evalOpponents []string
	evalRandom    bool
}

func variantConfig(name string) (config, error) {
	switch name {
	case "dqn":
		return config{
			params:        dql.DQNParams(),
			opponent:      "hybrid",
			evalOpponents: []string{"minimax", "random"},
		}, nil
	case "cer":
		return config{
			params:        dql.CERParams(),
			opponent:      "heuristic",
			tau:           500,
			evalOpponents: []string{"minimax", "heuristic"},
			evalRandom:    true,
		}, nil
	}

	return config{}, errors.Errorf("unknown variant: %q", name)
}

func newOpponent(name string, agent *dql.DQLAgent, agentMark tictactoe.Mark, seed int64) (train.Opponent, error) {
	switch name {
	case "random":
		return train.NewRandomOpponent(seed), nil
	case "heuristic":
		return train.NewHeuristicOpponent(seed), nil
	case "minimax":
		return minimax.NewPlayer(), nil
	case "hybrid":
		return minimax.NewHybridPlayer(agent, agentMark), nil
	}

	return nil, errors.Errorf("unknown opponent: %q", name)
}

func newBuffer(capacity int) (replay.Buffer, error) {
	if *replayDB == "" {
		return replay.NewCircularBuffer(capacity), nil
	}

	glog.Infof("Opening replay buffer in %v", *replayDB)
	buf, err := ldbstore.NewReplayBuffer(*replayDB, nil, capacity)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func agentMark() tictactoe.Mark {
	if *agentFirst {
		return tictactoe.Cross
	}
	return tictactoe.Nought
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := variantConfig(*variant)
	if err != nil {
		glog.Fatal(err)
	}
	cfg.params.Seed = *seed
	if *opponent != "" {
		cfg.opponent = *opponent
	}
	if *evalOpponents != "" {
		cfg.evalOpponents = splitList(*evalOpponents)
	}

	buf, err := newBuffer(cfg.params.Capacity)
	if err != nil {
		glog.Fatal(err)
	}
	defer buf.Close()

	agent := dql.New(cfg.params, agentMark(), buf)
	var learner train.Learner = agent
	var player dql.Agent = agent
	if *guided {
		g := minimax.NewGuidedAgent(agent, minimax.HybridDepth)
		g.DrawScore = cfg.params.DrawReward
		learner, player = g, g
	}

	if *weightsPath != "" && *mode != "train" {
		if err := agent.LoadWeightsFile(*weightsPath); err != nil {
			glog.Fatalf("Unable to load weights: %v", err)
		}
	}

	switch *mode {
	case "train":
		err = runTrain(cfg, agent, learner)
	case "eval":
		err = runEval(cfg, agent, player)
	case "play":
		err = runPlay(player)
	default:
		err = errors.Errorf("unknown mode: %q", *mode)
	}

	if err != nil {
		glog.Fatal(err)
	}
}

func runTrain(cfg config, agent *dql.DQLAgent, learner train.Learner) error {
	if *weightsPath != "" {
		if _, err := os.Stat(*weightsPath); err == nil {
			if err := agent.LoadWeightsFile(*weightsPath); err != nil {
				return errors.Wrap(err, "loading weights")
			}
			glog.Infof("Loaded weights from %v", *weightsPath)
		}
	}

	tc := train.Config{
		Episodes:        *episodes,
		AgentFirst:      *agentFirst,
		Tau:             cfg.tau,
		LogEvery:        *logEvery,
		CheckpointEvery: *checkpointEvery,
	}

	if *checkpointDB != "" {
		params := rdbstore.DefaultParams(*checkpointDB)
		defer params.Close()
		store, err := rdbstore.NewCheckpointStore(params)
		if err != nil {
			return err
		}
		defer store.Close()

		if *resume {
			episode, blob, err := store.Latest()
			if err != nil {
				return errors.Wrap(err, "resuming")
			}
			if err := agent.LoadWeights(bytes.NewReader(blob)); err != nil {
				return errors.Wrapf(err, "loading checkpoint %d", episode)
			}
			tc.StartEpisode = episode
			glog.Infof("Resumed from checkpoint at episode %d", episode)
		}

		tc.Checkpointer = store
	}

	opp, err := newOpponent(cfg.opponent, agent, agentMark(), *seed+1)
	if err != nil {
		return err
	}

	env := train.NewEnvironment(opp, cfg.params.DrawReward)
	stats := &train.Stats{}
	glog.Infof("Training %v agent against %v opponent for %d episodes", *variant, cfg.opponent, *episodes)
	if err := train.Train(learner, env, tc, stats); err != nil {
		return err
	}
	glog.Infof("Training finished: %v", stats)

	if *weightsPath != "" {
		if err := agent.SaveWeightsFile(*weightsPath); err != nil {
			return errors.Wrap(err, "saving weights")
		}
		glog.Infof("Saved weights to %v", *weightsPath)
	}

	return runEval(cfg, agent, learner)
}

// runEval evaluates player against each of cfg.evalOpponents in turn.
func runEval(cfg config, agent *dql.DQLAgent, player dql.Agent) error {
	for i, name := range cfg.evalOpponents {
		opp, err := newOpponent(name, agent, agentMark(), *seed+int64(2+i))
		if err != nil {
			return err
		}

		env := train.NewEnvironment(opp, cfg.params.DrawReward)
		stats, err := train.Evaluate(player, env, train.EvalConfig{
			Episodes:      *evalEpisodes,
			AgentFirst:    *agentFirst,
			RandomOpening: cfg.evalRandom,
			Seed:          *seed + 3,
		})
		if err != nil {
			return errors.Wrapf(err, "evaluating against %v", name)
		}

		fmt.Printf("Evaluation against %v: %v\n", name, stats)
	}

	return nil
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func runPlay(player dql.Agent) error {
	_, err := train.Play(os.Stdin, os.Stdout, player, agentMark())
	return err
}
