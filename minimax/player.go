package minimax

import (
	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/tictactoe"
)

// FullDepth searches every position to the end of the game.
const FullDepth = tictactoe.NumCells

// HybridDepth is the cut-off used with a learned leaf evaluator: the
// candidate move, the reply, and three further plies.
const HybridDepth = 5

// QLeaf evaluates cut-off positions with an agent's value function.
// Values are from the agent's point of view and are negated if the agent
// plays Nought, so that the score stays absolute.
type QLeaf struct {
	Valuer dql.Valuer
	Mark   tictactoe.Mark
}

// Evaluate implements LeafEvaluator.
func (q QLeaf) Evaluate(b tictactoe.Board) float64 {
	v := q.Valuer.Value(b)
	if q.Mark == tictactoe.Nought {
		return -v
	}
	return v
}

// Player chooses moves by searching to a fixed depth.
type Player struct {
	Searcher Searcher
	Depth    int
}

// NewPlayer returns a pure minimax player searching to the end of the game.
func NewPlayer() *Player {
	return &Player{Searcher: NewSearcher(Zero), Depth: FullDepth}
}

// NewHybridPlayer returns a player that cuts off at HybridDepth and scores
// leaves with the given agent's value function.
func NewHybridPlayer(valuer dql.Valuer, valuerMark tictactoe.Mark) *Player {
	return &Player{
		Searcher: NewSearcher(QLeaf{Valuer: valuer, Mark: valuerMark}),
		Depth:    HybridDepth,
	}
}

// Move returns the best move for mark. The board must have a valid move.
func (p *Player) Move(b tictactoe.Board, mark tictactoe.Mark) int {
	return p.Searcher.Best(b, mark, p.Depth).Move
}

// GuidedAgent is a DQLAgent whose exploiting moves are chosen by a
// depth-limited search using the agent's own values at the leaves.
// Exploration, replay and training are those of the embedded agent.
type GuidedAgent struct {
	*dql.DQLAgent
	Depth     int
	DrawScore float64
}

// NewGuidedAgent wraps agent so that its greedy choices come from search.
func NewGuidedAgent(agent *dql.DQLAgent, depth int) *GuidedAgent {
	g := &GuidedAgent{
		DQLAgent:  agent,
		Depth:     depth,
		DrawScore: DefaultDrawScore,
	}

	agent.SetGreedyPolicy(g)
	return g
}

// Choose implements dql.GreedyPolicy.
func (g *GuidedAgent) Choose(b tictactoe.Board, q []float64, actions []int) int {
	mark := g.Mark()
	s := Searcher{
		DrawScore: g.DrawScore,
		Evaluator: QLeaf{Valuer: g.DQLAgent, Mark: mark},
	}

	move := s.Best(b, mark, g.Depth).Move
	if move < 0 || (actions != nil && !contains(actions, move)) {
		return dql.Greedy(q, actions)
	}

	return move
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
