// Package ldbstore implements a replay buffer that keeps transitions
// on disk in a LevelDB database, rather than in memory.
//
// It is substantially slower than replay.CircularBuffer but can hold very
// large buffers, and survives restarts of the training process.
package ldbstore
