package store

import (
	"bytes"
	"strings"
	"sync"

	"github.com/freyjadb/freyjadb/pkg/btree"
	"github.com/freyjadb/freyjadb/pkg/btree/pool"
)

const defaultIndexPoolSize = 8192

// OrderedIndex provides O(log n) point lookups and, unlike a hash map,
// O(height) ordered range scans over key locations.
type OrderedIndex struct {
	tree  *btree.Tree[[]byte, *IndexEntry]
	mutex sync.RWMutex
}

func indexCapability() btree.Capability[[]byte, *IndexEntry] {
	return btree.Capability[[]byte, *IndexEntry]{
		Compare: bytes.Compare,
		CopyKey: func(dst *[]byte, src []byte) {
			cp := make([]byte, len(src))
			copy(cp, src)
			*dst = cp
		},
	}
}

// NewHashIndex creates a new ordered index. The name and config type are
// kept from the original hash-backed index; HashIndexConfig.PoolSize now
// sizes the backing B-Tree's slab pool.
func NewHashIndex(config HashIndexConfig) *OrderedIndex {
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = defaultIndexPoolSize
	}
	pool := btree.NewNodePool[[]byte, *IndexEntry](poolSize, pool.TrackStats)
	degree := config.Degree
	if degree < 3 || degree > 1024 {
		degree = 64
	}
	tree, err := btree.New(degree, indexCapability(), pool, 0)
	if err != nil {
		// config is validated above; reaching here means New's own
		// invariants (degree range, non-nil Compare/pool) were violated
		// by a programmer error, not a runtime condition.
		panic(err)
	}
	return &OrderedIndex{tree: tree}
}

// Put adds or updates an index entry for a key.
func (idx *OrderedIndex) Put(key []byte, entry *IndexEntry) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	if idx.tree.Contains(key) {
		idx.tree.Delete(key)
	}
	idx.tree.Insert(key, entry)
}

// Get retrieves the index entry for a key.
func (idx *OrderedIndex) Get(key []byte) (*IndexEntry, bool) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	return idx.tree.Search(key)
}

// Delete removes a key from the index.
func (idx *OrderedIndex) Delete(key []byte) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.tree.Delete(key)
}

// Size returns the number of keys in the index.
func (idx *OrderedIndex) Size() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	return idx.tree.Len()
}

// Clear removes all entries from the index.
func (idx *OrderedIndex) Clear() {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.tree.Clear()
}

// Keys returns all keys in the index, in ascending order.
func (idx *OrderedIndex) Keys() []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	keys := make([]string, 0, idx.tree.Len())
	it := idx.tree.Iter()
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	return keys
}

// KeysWithPrefix returns all keys that start with the given prefix, in
// ascending order.
func (idx *OrderedIndex) KeysWithPrefix(prefix string) []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var keys []string
	for _, key := range idx.scanPrefixLocked(prefix) {
		keys = append(keys, key)
	}
	return keys
}

// ScanPrefix returns a channel of keys that match the prefix, delivered
// in ascending order.
func (idx *OrderedIndex) ScanPrefix(prefix string) <-chan string {
	ch := make(chan string, 100)

	go func() {
		defer close(ch)

		idx.mutex.RLock()
		keys := idx.scanPrefixLocked(prefix)
		idx.mutex.RUnlock()

		for _, key := range keys {
			ch <- key
		}
	}()

	return ch
}

// scanPrefixLocked must be called with idx.mutex held (for reading).
func (idx *OrderedIndex) scanPrefixLocked(prefix string) []string {
	lo := []byte(prefix)
	hi, ok := nextPrefixBytes(lo)

	var keys []string
	var it *btree.Iterator[[]byte, *IndexEntry]
	if ok {
		it = idx.tree.RangeIter(lo, hi, true, false, false)
	} else {
		it = idx.tree.Iter()
	}
	for it.Next() {
		key := it.Key()
		if !ok {
			if bytes.Compare(key, lo) < 0 {
				continue
			}
			if !strings.HasPrefix(string(key), prefix) {
				break
			}
		}
		keys = append(keys, string(key))
	}
	return keys
}

// RangeScan returns every index entry with lo <= key <= hi, in ascending
// key order.
func (idx *OrderedIndex) RangeScan(lo, hi []byte) ([]btree.Pair[[]byte, *IndexEntry], error) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	return idx.tree.RangeSearch(lo, hi, 0)
}

// nextPrefixBytes returns the smallest byte string sorting strictly
// after every string beginning with prefix, or ok=false if prefix is
// empty or entirely 0xFF bytes.
func nextPrefixBytes(prefix []byte) (out []byte, ok bool) {
	out = make([]byte, len(prefix))
	copy(out, prefix)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1], true
		}
	}
	return nil, false
}

// BuildFromLog scans a log file and populates the index.
func (idx *OrderedIndex) BuildFromLog(reader *LogReader) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.tree.Clear()

	if err := reader.Seek(0); err != nil {
		return err
	}

	iterator := reader.Iterator()
	defer iterator.Close()

	for iterator.Next() {
		record := iterator.Record()
		if record == nil {
			continue
		}

		entry := &IndexEntry{
			FileID:    0, // Single file for now
			Offset:    reader.Offset() - int64(record.Size()),
			Size:      uint32(record.Size()),
			Timestamp: record.Timestamp,
		}

		// Handle tombstones (empty value indicates deletion)
		if len(record.Value) == 0 {
			idx.tree.Delete(record.Key)
		} else if idx.tree.Contains(record.Key) {
			idx.tree.Delete(record.Key)
			idx.tree.Insert(record.Key, entry)
		} else {
			idx.tree.Insert(record.Key, entry)
		}
	}

	return nil
}

// Stats returns index statistics.
func (idx *OrderedIndex) Stats() *IndexStats {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	treeStats := idx.tree.Stats()
	return &IndexStats{
		TotalKeys:     treeStats.KeyCount,
		Height:        treeStats.Height,
		NodeCount:     treeStats.NodeCount,
		NodesInUse:    treeStats.Pool.UsedBlocks,
		PoolCapacity:  treeStats.Pool.UsedBlocks + treeStats.Pool.FreeBlocks,
	}
}

// IndexStats holds statistics about the index.
type IndexStats struct {
	TotalKeys    int
	Height       int
	NodeCount    int
	NodesInUse   int
	PoolCapacity int
}
