package rdbstore

import (
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"
)

// ErrNoCheckpoint is returned when a requested checkpoint does not exist.
var ErrNoCheckpoint = errors.New("checkpoint not found")

// CheckpointStore keeps serialized network weights keyed by episode.
// Keys are big-endian so that iteration order is episode order.
type CheckpointStore struct {
	params Params
	db     *rocksdb.DB
}

// NewCheckpointStore opens or creates a checkpoint store at params.Path.
func NewCheckpointStore(params Params) (*CheckpointStore, error) {
	db, err := rocksdb.OpenDb(params.Options, params.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening checkpoint store at %s", params.Path)
	}

	return &CheckpointStore{
		params: params,
		db:     db,
	}, nil
}

// Close implements io.Closer.
func (s *CheckpointStore) Close() error {
	s.db.Close()
	return nil
}

func episodeKey(episode int) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(episode))
	return key[:]
}

// SaveCheckpoint stores the weights blob for the given episode,
// replacing any previous checkpoint of that episode.
func (s *CheckpointStore) SaveCheckpoint(episode int, weights []byte) error {
	if err := s.db.Put(s.params.WriteOptions, episodeKey(episode), weights); err != nil {
		return errors.Wrapf(err, "saving checkpoint for episode %d", episode)
	}

	glog.V(1).Infof("Saved checkpoint for episode %d (%d bytes)", episode, len(weights))
	return nil
}

// Checkpoint returns the weights blob stored for the given episode.
func (s *CheckpointStore) Checkpoint(episode int) ([]byte, error) {
	value, err := s.db.Get(s.params.ReadOptions, episodeKey(episode))
	if err != nil {
		return nil, err
	}
	defer value.Free()

	if !value.Exists() {
		return nil, errors.Wrapf(ErrNoCheckpoint, "episode %d", episode)
	}

	return append([]byte(nil), value.Data()...), nil
}

// Latest returns the checkpoint with the highest episode number.
func (s *CheckpointStore) Latest() (int, []byte, error) {
	it := s.db.NewIterator(s.params.ReadOptions)
	defer it.Close()

	it.SeekToLast()
	if !it.Valid() {
		if err := it.Err(); err != nil {
			return 0, nil, err
		}
		return 0, nil, ErrNoCheckpoint
	}

	key, value := it.Key(), it.Value()
	defer key.Free()
	defer value.Free()

	episode := int(binary.BigEndian.Uint64(key.Data()))
	return episode, append([]byte(nil), value.Data()...), nil
}

// Episodes returns the episode numbers of all stored checkpoints in order.
func (s *CheckpointStore) Episodes() ([]int, error) {
	it := s.db.NewIterator(s.params.ReadOptions)
	defer it.Close()

	var episodes []int
	for it.SeekToFirst(); it.Valid(); it.Next() {
		key := it.Key()
		episodes = append(episodes, int(binary.BigEndian.Uint64(key.Data())))
		key.Free()
	}

	return episodes, it.Err()
}
