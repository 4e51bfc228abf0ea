package store

import (
	"sync"

	"github.com/iov-one/msig/errors"
)

// Synced guards a store shared by several independent writers. Every call is
// serialized and a batch is applied as a whole while holding the lock, so a
// Commit never persists half of somebody else's batch.
type Synced struct {
	mu sync.Mutex
	kv KVStore
}

var _ CacheableKVStore = (*Synced)(nil)
var _ CommitKVStore = (*Synced)(nil)

// NewSynced wraps given store.
func NewSynced(kv KVStore) *Synced {
	return &Synced{kv: kv}
}

func (s *Synced) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Get(key)
}

func (s *Synced) Has(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Has(key)
}

func (s *Synced) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(key, value)
}

func (s *Synced) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(key)
}

// NewBatch returns a batch that is applied atomically with regard to other
// users of this store.
func (s *Synced) NewBatch() Batch {
	return &syncedBatch{s: s}
}

// CacheWrap returns a savepoint that is written using a synced batch.
func (s *Synced) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch())
}

// Commit persists the current state if the wrapped store supports it. For
// stores without persistence it is a no-op.
func (s *Synced) Commit() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kv.(CommitKVStore)
	if !ok {
		return CommitID{}, nil
	}
	return c.Commit()
}

func (s *Synced) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kv.(CommitKVStore)
	if !ok {
		return nil
	}
	return c.LoadLatestVersion()
}

func (s *Synced) LatestVersion() CommitID {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kv.(CommitKVStore)
	if !ok {
		return CommitID{}
	}
	return c.LatestVersion()
}

type syncedBatch struct {
	s   *Synced
	ops []Op
}

func (b *syncedBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, Op{kind: setKind, key: key, value: value})
	return nil
}

func (b *syncedBatch) Delete(key []byte) error {
	b.ops = append(b.ops, Op{kind: delKind, key: key})
	return nil
}

func (b *syncedBatch) Write() error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	for _, op := range b.ops {
		if err := op.Apply(b.s.kv); err != nil {
			return errors.Wrap(err, "cannot apply batch")
		}
	}
	b.ops = nil
	return nil
}
