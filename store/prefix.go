package store

// PrefixStore confines all reads and writes to keys starting with a fixed
// prefix of the underlying store.
type PrefixStore struct {
	prefix []byte
	kv     KVStore
}

var _ KVStore = (*PrefixStore)(nil)

// NewPrefixStore returns a view of kv where every key is stored under
// prefix.
func NewPrefixStore(kv KVStore, prefix []byte) *PrefixStore {
	return &PrefixStore{prefix: append([]byte(nil), prefix...), kv: kv}
}

// key copies into a new slice so that consecutive calls never share the
// backing array of the prefix.
func (p *PrefixStore) key(key []byte) []byte {
	if key == nil {
		panic("nil key")
	}
	l := len(p.prefix)
	out := make([]byte, l+len(key))
	copy(out, p.prefix)
	copy(out[l:], key)
	return out
}

func (p *PrefixStore) Get(key []byte) ([]byte, error) {
	return p.kv.Get(p.key(key))
}

func (p *PrefixStore) Has(key []byte) (bool, error) {
	return p.kv.Has(p.key(key))
}

func (p *PrefixStore) Set(key, value []byte) error {
	return p.kv.Set(p.key(key), value)
}

func (p *PrefixStore) Delete(key []byte) error {
	return p.kv.Delete(p.key(key))
}

// NewBatch collects operations and applies them through the prefix when
// written.
func (p *PrefixStore) NewBatch() Batch {
	return NewNonAtomicBatch(p)
}
