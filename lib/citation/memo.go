// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/answerview/lib/codec"
	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

// defaultMemoCapacity bounds the number of cached results. A viewer
// session shows one answer at a time; the headroom covers a host
// flipping between recent answers.
const defaultMemoCapacity = 64

// recordDigest is the BLAKE3 hash of a record's deterministic CBOR
// encoding. Equal records always produce equal digests.
type recordDigest [32]byte

// Memo caches [Normalize] results keyed by record content. Callers
// recompute on every change to the answer and get the cached result
// back when the content is unchanged.
//
// Returned Parsed values share their Citations slice with the cache
// and must be treated as read-only.
//
// Memo is safe for concurrent use.
type Memo struct {
	mutex    sync.Mutex
	capacity int
	entries  map[recordDigest]answer.Parsed
	order    []recordDigest

	hits   int
	misses int
}

// NewMemo creates a Memo holding at most capacity results. A
// non-positive capacity selects the default.
func NewMemo(capacity int) *Memo {
	if capacity <= 0 {
		capacity = defaultMemoCapacity
	}
	return &Memo{
		capacity: capacity,
		entries:  make(map[recordDigest]answer.Parsed, capacity),
	}
}

// Normalize returns Normalize(record), computing it only when no
// result for an identical record is cached. When the oldest entry is
// evicted to make room, insertion order decides.
func (memo *Memo) Normalize(record answer.Record) answer.Parsed {
	digest, ok := digestRecord(record)
	if !ok {
		return Normalize(record)
	}

	memo.mutex.Lock()
	if parsed, found := memo.entries[digest]; found {
		memo.hits++
		memo.mutex.Unlock()
		return parsed
	}
	memo.misses++
	memo.mutex.Unlock()

	parsed := Normalize(record)

	memo.mutex.Lock()
	defer memo.mutex.Unlock()
	if _, found := memo.entries[digest]; !found {
		if len(memo.order) >= memo.capacity {
			oldest := memo.order[0]
			memo.order = memo.order[1:]
			delete(memo.entries, oldest)
		}
		memo.entries[digest] = parsed
		memo.order = append(memo.order, digest)
	}
	return parsed
}

// Stats returns the cache hit and miss counts.
func (memo *Memo) Stats() (hits, misses int) {
	memo.mutex.Lock()
	defer memo.mutex.Unlock()
	return memo.hits, memo.misses
}

// Len returns the number of cached results.
func (memo *Memo) Len() int {
	memo.mutex.Lock()
	defer memo.mutex.Unlock()
	return len(memo.entries)
}

// digestRecord hashes the record's canonical encoding. Returns false
// if the record cannot be encoded, in which case callers skip the
// cache.
func digestRecord(record answer.Record) (recordDigest, bool) {
	data, err := codec.Marshal(record)
	if err != nil {
		return recordDigest{}, false
	}
	return recordDigest(blake3.Sum256(data)), true
}
