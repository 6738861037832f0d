// Package tree implements exhaustive walks over the tic-tac-toe game tree.
package tree

import (
	"github.com/timpalpant/go-dql/tictactoe"
)

// Visit calls visitor on root and then on every position reachable from it
// by legal play, depth-first, trying moves in increasing cell order.
// Terminal positions are visited but not expanded.
func Visit(root tictactoe.Board, toMove tictactoe.Mark, visitor func(b tictactoe.Board, toMove tictactoe.Mark)) {
	visitor(root, toMove)
	if root.Winner().Terminal() {
		return
	}

	for _, idx := range root.ValidMoves() {
		child, err := root.ApplyMove(idx, toMove)
		if err != nil {
			panic(err)
		}

		Visit(child, toMove.Opponent(), visitor)
	}
}

// CountNodes returns the number of nodes in the game tree rooted at root.
func CountNodes(root tictactoe.Board, toMove tictactoe.Mark) int {
	total := 0
	Visit(root, toMove, func(b tictactoe.Board, m tictactoe.Mark) { total++ })
	return total
}

// CountTerminalNodes returns the number of distinct complete games.
func CountTerminalNodes(root tictactoe.Board, toMove tictactoe.Mark) int {
	total := 0
	Visit(root, toMove, func(b tictactoe.Board, m tictactoe.Mark) {
		if b.Winner().Terminal() {
			total++
		}
	})

	return total
}

// VisitStates calls visitor once for each distinct position reachable
// from root.
func VisitStates(root tictactoe.Board, toMove tictactoe.Mark, visitor func(b tictactoe.Board, toMove tictactoe.Mark)) {
	seen := make(map[tictactoe.Board]struct{})
	Visit(root, toMove, func(b tictactoe.Board, m tictactoe.Mark) {
		if _, ok := seen[b]; ok {
			return
		}

		visitor(b, m)
		seen[b] = struct{}{}
	})
}

// CountStates returns the number of distinct positions reachable from root.
func CountStates(root tictactoe.Board, toMove tictactoe.Mark) int {
	total := 0
	VisitStates(root, toMove, func(b tictactoe.Board, m tictactoe.Mark) { total++ })
	return total
}
