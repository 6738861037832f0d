// Package train runs training, evaluation and interactive games for a
// tic-tac-toe agent against a fixed opponent.
package train
