package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

type DefaultStorage struct {
	db *pebble.DB
}

func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &DefaultStorage{db: db}, nil
}

func (s *DefaultStorage) Create(data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	key := id.Bytes()
	if err := s.db.Set(key, data, pebble.NoSync); err != nil {
		return nil, err
	}

	return &id, nil
}

func (s *DefaultStorage) Read(id *ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return data, nil
}

func (s *DefaultStorage) Update(id *ksuid.KSUID, data []byte) error {
	return s.db.Set(id.Bytes(), data, pebble.NoSync)
}

func (s *DefaultStorage) Delete(id *ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

func (s *DefaultStorage) Close() error {
	return s.db.Close()
}

// WriteRaw sets an arbitrary key/value pair, bypassing the ksuid-keyed
// Create/Update path. Used to populate a snapshot with caller-chosen keys
// (e.g. "user:1") ahead of a bulk import elsewhere.
func (s *DefaultStorage) WriteRaw(key, value []byte, opts *pebble.WriteOptions) error {
	return s.db.Set(key, value, opts)
}

// SortedPairs returns every key/value pair whose key starts with prefix,
// in ascending key order. pebble already iterates its keyspace sorted,
// so this needs no sort step of its own — it exists to hand a caller
// (e.g. a B-Tree index rebuild) input that's safe to feed straight into
// BulkInsert.
func (s *DefaultStorage) SortedPairs(prefix []byte) ([][]byte, [][]byte, error) {
	iterOpts := &pebble.IterOptions{}
	if len(prefix) > 0 {
		iterOpts.LowerBound = prefix
		iterOpts.UpperBound = prefixUpperBound(prefix)
	}

	it, err := s.db.NewIter(iterOpts)
	if err != nil {
		return nil, nil, err
	}
	defer it.Close()

	var keys, values [][]byte
	for it.First(); it.Valid(); it.Next() {
		key := append([]byte(nil), it.Key()...)
		val := append([]byte(nil), it.Value()...)
		keys = append(keys, key)
		values = append(values, val)
	}
	if err := it.Error(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// prefixUpperBound returns the smallest key sorting strictly after every
// key starting with prefix, or nil if the prefix is unbounded (empty, or
// entirely 0xFF bytes).
func prefixUpperBound(prefix []byte) []byte {
	bound := append([]byte(nil), prefix...)
	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] != 0xFF {
			bound[i]++
			return bound[:i+1]
		}
	}
	return nil
}
