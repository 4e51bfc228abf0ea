package store

import "github.com/iov-one/msig"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = msig.ReadOnlyKVStore
type SetDeleter = msig.SetDeleter
type KVStore = msig.KVStore
type Batch = msig.Batch
type CacheableKVStore = msig.CacheableKVStore
type KVCacheWrap = msig.KVCacheWrap
type CommitKVStore = msig.CommitKVStore
type CommitID = msig.CommitID
