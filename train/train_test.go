package train

import (
	"testing"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/replay"
	"github.com/timpalpant/go-dql/tictactoe"
)

type memCheckpointer struct {
	episodes []int
}

func (m *memCheckpointer) SaveCheckpoint(episode int, weights []byte) error {
	m.episodes = append(m.episodes, episode)
	return nil
}

func TestTrain_Bookkeeping(t *testing.T) {
	agent := &lowestAgent{minSamples: 3}
	env := NewEnvironment(NewRandomOpponent(5), 0.5)
	ckpt := &memCheckpointer{}
	cfg := Config{
		Episodes:        20,
		AgentFirst:      true,
		Tau:             7,
		CheckpointEvery: 5,
		Checkpointer:    ckpt,
	}

	stats := &Stats{}
	if err := Train(agent, env, cfg, stats); err != nil {
		t.Fatal(err)
	}

	if stats.Episodes != 20 || stats.Wins+stats.Losses+stats.Draws != 20 {
		t.Errorf("unexpected stats: %v", stats)
	}
	if agent.resets != 20 || agent.mark != tictactoe.Cross {
		t.Errorf("resets=%d mark=%v", agent.resets, agent.mark)
	}

	steps := len(agent.rewards)
	if agent.optimizes != steps-2 || len(stats.LossHistory) != steps-2 {
		t.Errorf("expected %d optimize steps, got %d (%d losses)",
			steps-2, agent.optimizes, len(stats.LossHistory))
	}
	if agent.syncs != steps/7 {
		t.Errorf("expected %d target syncs, got %d", steps/7, agent.syncs)
	}
	if len(ckpt.episodes) != 4 || ckpt.episodes[3] != 20 {
		t.Errorf("unexpected checkpoints: %v", ckpt.episodes)
	}

	var total float64
	for _, r := range agent.rewards {
		total += r
	}
	if total != stats.CumulativeReward || len(stats.RewardHistory) != 20 {
		t.Errorf("cumulative reward %v != %v", stats.CumulativeReward, total)
	}
	if stats.MeanLoss(0) != 0.25 {
		t.Errorf("mean loss: %v", stats.MeanLoss(0))
	}
	t.Logf("%v", stats)
}

type mapCheckpointer map[int][]byte

func (m mapCheckpointer) SaveCheckpoint(episode int, weights []byte) error {
	m[episode] = weights
	return nil
}

func (m mapCheckpointer) latest() int {
	latest := 0
	for ep := range m {
		if ep > latest {
			latest = ep
		}
	}
	return latest
}

func TestTrain_ResumeContinuesEpisodeNumbers(t *testing.T) {
	ckpt := mapCheckpointer{}
	env := NewEnvironment(NewRandomOpponent(5), 0.5)
	cfg := Config{
		Episodes:        4,
		AgentFirst:      true,
		CheckpointEvery: 1,
		Checkpointer:    ckpt,
	}
	if err := Train(&lowestAgent{}, env, cfg, &Stats{}); err != nil {
		t.Fatal(err)
	}
	if ckpt.latest() != 4 {
		t.Fatalf("expected latest checkpoint 4, got %d", ckpt.latest())
	}

	cfg.Episodes = 2
	cfg.StartEpisode = ckpt.latest()
	stats := &Stats{}
	if err := Train(&lowestAgent{}, env, cfg, stats); err != nil {
		t.Fatal(err)
	}

	if len(ckpt) != 6 || ckpt.latest() != 6 {
		t.Errorf("expected checkpoints 1..6, got %d with latest %d", len(ckpt), ckpt.latest())
	}
	if stats.Episodes != 2 {
		t.Errorf("expected 2 episodes in resumed run, got %d", stats.Episodes)
	}
}

func TestTrain_OpponentFirst(t *testing.T) {
	agent := &lowestAgent{}
	env := NewEnvironment(NewRandomOpponent(5), 0.5)
	stats := &Stats{}
	if err := Train(agent, env, Config{Episodes: 3}, stats); err != nil {
		t.Fatal(err)
	}

	if agent.mark != tictactoe.Nought {
		t.Errorf("expected agent to play Nought, got %v", agent.mark)
	}
}

func TestTrain_DQLAgent(t *testing.T) {
	params := dql.DQNParams()
	params.Hidden = []int{16}
	params.Capacity = 512
	params.BatchSize = 16
	params.MinExperience = 16
	params.Seed = 3
	agent := dql.New(params, tictactoe.Cross, replay.NewCircularBuffer(params.Capacity))
	env := NewEnvironment(NewHeuristicOpponent(9), params.DrawReward)

	stats := &Stats{}
	if err := Train(agent, env, Config{Episodes: 30, AgentFirst: true, LogEvery: 10}, stats); err != nil {
		t.Fatal(err)
	}

	if agent.Buffer().Len() < 30*3 {
		t.Errorf("expected at least 90 stored transitions, got %d", agent.Buffer().Len())
	}
	if agent.Steps() == 0 || agent.Steps() != len(stats.LossHistory) {
		t.Errorf("steps=%d losses=%d", agent.Steps(), len(stats.LossHistory))
	}
	if stats.Epsilon >= params.Epsilon || stats.Epsilon != agent.Epsilon() {
		t.Errorf("epsilon did not decay: %v", stats.Epsilon)
	}
	t.Logf("%v", stats)
}

func TestStats_WinRate(t *testing.T) {
	s := &Stats{}
	if s.WinRate() != 0 {
		t.Error("empty stats should have zero win rate")
	}

	s.Record(tictactoe.CrossWins, tictactoe.Cross)
	s.Record(tictactoe.CrossWins, tictactoe.Nought)
	s.Record(tictactoe.Draw, tictactoe.Cross)
	s.Record(tictactoe.NoughtWins, tictactoe.Nought)
	if s.Wins != 2 || s.Losses != 1 || s.Draws != 1 || s.WinRate() != 0.5 {
		t.Errorf("unexpected stats: %v", s)
	}
}
