// Package rdbstore implements storage of training checkpoints in a
// RocksDB database.
package rdbstore

import (
	rocksdb "github.com/tecbot/gorocksdb"
)

// Params configures the RocksDB database behind a CheckpointStore.
type Params struct {
	Path         string
	Options      *rocksdb.Options
	ReadOptions  *rocksdb.ReadOptions
	WriteOptions *rocksdb.WriteOptions
}

// DefaultParams returns options that create the checkpoint database at
// path if it does not exist.
func DefaultParams(path string) Params {
	opts := rocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)

	return Params{
		Path:         path,
		Options:      opts,
		ReadOptions:  rocksdb.NewDefaultReadOptions(),
		WriteOptions: rocksdb.NewDefaultWriteOptions(),
	}
}

// Close releases the RocksDB options. Call it after the store is closed.
func (p Params) Close() {
	p.Options.Destroy()
	p.ReadOptions.Destroy()
	p.WriteOptions.Destroy()
}
