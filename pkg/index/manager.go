package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/freyjadb/freyjadb/pkg/btree"
	"github.com/segmentio/ksuid"
)

const defaultIndexPoolSize = 4096

// SecondaryIndex manages an ordered B-Tree index for one field, keyed on
// a composite of the field's serialized value and the owning record's
// primary key, so distinct records with an equal field value still get
// distinct index entries.
type SecondaryIndex struct {
	fieldName string
	tree      *btree.Tree[[]byte, ksuid.KSUID]
	mutex     sync.RWMutex
}

func bytesCapability() btree.Capability[[]byte, ksuid.KSUID] {
	return btree.Capability[[]byte, ksuid.KSUID]{
		Compare: bytes.Compare,
		CopyKey: func(dst *[]byte, src []byte) {
			cp := make([]byte, len(src))
			copy(cp, src)
			*dst = cp
		},
	}
}

// NewSecondaryIndex creates a new secondary index for a field. order is
// the B-Tree degree (minimum branching factor) backing it.
func NewSecondaryIndex(fieldName string, order int) *SecondaryIndex {
	pool := btree.NewNodePool[[]byte, ksuid.KSUID](defaultIndexPoolSize, 0)
	tree, err := btree.New(order, bytesCapability(), pool, btree.AllowDuplicates)
	if err != nil {
		// NewIndexManager passes order through unchecked, so a degree
		// outside 3..1024 surfaces here as a panic rather than an error.
		panic(fmt.Sprintf("index: invalid B-Tree degree %d: %v", order, err))
	}
	return &SecondaryIndex{fieldName: fieldName, tree: tree}
}

// Insert adds a record to the secondary index.
func (idx *SecondaryIndex) Insert(fieldValue interface{}, primaryKey []byte) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	indexKey := idx.createIndexKey(fieldValue, primaryKey)
	ksuidValue, err := ksuid.FromBytes(primaryKey)
	if err != nil {
		return fmt.Errorf("failed to create KSUID from primary key: %w", err)
	}
	if err := idx.tree.Insert(indexKey, ksuidValue); err != nil {
		return fmt.Errorf("index %s: %w", idx.fieldName, err)
	}
	return nil
}

// Delete removes a record from the secondary index.
func (idx *SecondaryIndex) Delete(fieldValue interface{}, primaryKey []byte) bool {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	indexKey := idx.createIndexKey(fieldValue, primaryKey)
	return idx.tree.Delete(indexKey) == nil
}

// Search returns the primary keys of every record whose field value
// exactly matches fieldValue.
func (idx *SecondaryIndex) Search(fieldValue interface{}) ([][]byte, error) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	prefix := idx.createFieldPrefix(fieldValue)
	return idx.scanPrefix(prefix)
}

// SearchRange returns the primary keys of every record whose field value
// falls within [startValue, endValue]. Either bound may be nil, meaning
// unbounded on that side.
func (idx *SecondaryIndex) SearchRange(startValue, endValue interface{}) ([][]byte, error) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var lo []byte
	if startValue != nil {
		lo = idx.createFieldPrefix(startValue)
	}

	if endValue == nil {
		return idx.scanUnbounded(lo)
	}
	hiPrefix := idx.createFieldPrefix(endValue)
	hi, ok := nextPrefix(hiPrefix)
	if !ok {
		return idx.scanUnbounded(lo)
	}
	return idx.scanBounded(lo, hi)
}

// scanPrefix collects every primary key whose composite index key starts
// with prefix.
func (idx *SecondaryIndex) scanPrefix(prefix []byte) ([][]byte, error) {
	hi, ok := nextPrefix(prefix)
	if !ok {
		return idx.scanPrefixUnbounded(prefix)
	}
	return idx.scanBounded(prefix, hi)
}

// scanBounded walks [lo, hi) and strips the field-value prefix off each
// matching key, returning just the primary-key suffix. lo may be nil or
// a different field value than the entry's, so the prefix length comes
// from each entry's own decoded field-value length.
func (idx *SecondaryIndex) scanBounded(lo, hi []byte) ([][]byte, error) {
	out := [][]byte{}
	it := idx.tree.RangeIter(lo, hi, true, false, false)
	for it.Next() {
		key := it.Key()
		n := fieldEncodingLen(key)
		out = append(out, primaryKeySuffix(key, key[:n]))
	}
	return out, it.Err()
}

// scanUnbounded walks forward from lo (inclusive) to the end of the
// index, with no upper bound at all. Used for open-ended range queries
// ("field > x", "field >= x"). As in scanBounded, lo may be shorter
// than the field's actual encoding (or empty, for "no lower bound
// either"), so the primary-key suffix is stripped using each entry's own
// decoded field-value length rather than len(lo).
func (idx *SecondaryIndex) scanUnbounded(lo []byte) ([][]byte, error) {
	out := [][]byte{}
	it := idx.tree.Iter()
	for it.Next() {
		key := it.Key()
		if bytes.Compare(key, lo) < 0 {
			continue
		}
		n := fieldEncodingLen(key)
		out = append(out, primaryKeySuffix(key, key[:n]))
	}
	return out, it.Err()
}

// fieldEncodingLen returns the length of the serialized field-value
// prefix at the start of an index key, decoded from its type marker.
func fieldEncodingLen(key []byte) int {
	if len(key) == 0 {
		return 0
	}
	switch key[0] {
	case 0, 1: // int64 / float64: marker + 8 bytes
		if len(key) < 9 {
			return len(key)
		}
		return 9
	default: // string: marker + bytes + null terminator
		for i := 1; i < len(key); i++ {
			if key[i] == 0 {
				return i + 1
			}
		}
		return len(key)
	}
}

// scanPrefixUnbounded walks forward from prefix (inclusive), stopping
// once a key no longer starts with prefix. Used only when prefix's
// exclusive upper bound cannot be expressed (an all-0xFF serialization).
func (idx *SecondaryIndex) scanPrefixUnbounded(prefix []byte) ([][]byte, error) {
	out := [][]byte{}
	it := idx.tree.Iter()
	for it.Next() {
		key := it.Key()
		if len(key) < len(prefix) || bytes.Compare(key[:len(prefix)], prefix) != 0 {
			if bytes.Compare(key, prefix) < 0 {
				continue
			}
			break
		}
		out = append(out, primaryKeySuffix(key, prefix))
	}
	return out, it.Err()
}

func primaryKeySuffix(key, fieldPrefix []byte) []byte {
	if len(key) <= len(fieldPrefix) {
		return nil
	}
	return key[len(fieldPrefix):]
}

// nextPrefix returns the smallest byte string that sorts strictly after
// every string beginning with prefix, or ok=false if no such bound exists
// (prefix is empty, or entirely 0xFF bytes).
func nextPrefix(prefix []byte) (out []byte, ok bool) {
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

// Save persists the index to dir as a sorted dump of its entries.
func (idx *SecondaryIndex) Save(dir string) error {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	filename := filepath.Join(dir, fmt.Sprintf("index_%s.dat", idx.fieldName))
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("index %s: create: %w", idx.fieldName, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var lenBuf [4]byte
	it := idx.tree.Iter()
	for it.Next() {
		key := it.Key()
		val := it.Value()
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(key)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(key); err != nil {
			return err
		}
		if _, err := w.Write(val.Bytes()); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("index %s: iterate: %w", idx.fieldName, err)
	}
	return w.Flush()
}

// Load restores the index from dir, replacing whatever entries were
// already present.
func (idx *SecondaryIndex) Load(dir string) error {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	filename := filepath.Join(dir, fmt.Sprintf("index_%s.dat", idx.fieldName))
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("index %s: open: %w", idx.fieldName, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var pairs []btree.Pair[[]byte, ksuid.KSUID]
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("index %s: read key length: %w", idx.fieldName, err)
		}
		keyLen := binary.BigEndian.Uint32(lenBuf[:])
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(r, key); err != nil {
			return fmt.Errorf("index %s: read key: %w", idx.fieldName, err)
		}
		var valBuf [20]byte
		if _, err := io.ReadFull(r, valBuf[:]); err != nil {
			return fmt.Errorf("index %s: read value: %w", idx.fieldName, err)
		}
		val, err := ksuid.FromBytes(valBuf[:])
		if err != nil {
			return fmt.Errorf("index %s: decode value: %w", idx.fieldName, err)
		}
		pairs = append(pairs, btree.Pair[[]byte, ksuid.KSUID]{Key: key, Value: val})
	}

	idx.tree.Clear()
	if err := idx.tree.BulkInsert(pairs); err != nil {
		return fmt.Errorf("index %s: bulk load: %w", idx.fieldName, err)
	}
	return nil
}

// createIndexKey creates a composite key: field_value + primary_key.
func (idx *SecondaryIndex) createIndexKey(fieldValue interface{}, primaryKey []byte) []byte {
	var buf bytes.Buffer
	idx.serializeValue(&buf, fieldValue)
	buf.Write(primaryKey)
	return buf.Bytes()
}

// createFieldPrefix creates a key prefix for field value matching.
func (idx *SecondaryIndex) createFieldPrefix(fieldValue interface{}) []byte {
	var buf bytes.Buffer
	idx.serializeValue(&buf, fieldValue)
	return buf.Bytes()
}

// serializeValue serializes different value types for indexing. Numbers
// are written with the sign bit flipped (and a negative float's other bits
// inverted) so that byte order matches numeric order.
func (idx *SecondaryIndex) serializeValue(buf *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case int:
		buf.WriteByte(0) // Type marker for int
		binary.Write(buf, binary.BigEndian, uint64(v)^(1<<63))
	case int64:
		buf.WriteByte(0)
		binary.Write(buf, binary.BigEndian, uint64(v)^(1<<63))
	case float64:
		buf.WriteByte(1) // Type marker for float64
		bits := math.Float64bits(v)
		if bits>>63 == 1 {
			bits = ^bits
		} else {
			bits |= 1 << 63
		}
		binary.Write(buf, binary.BigEndian, bits)
	case string:
		buf.WriteByte(2) // Type marker for string
		buf.WriteString(v)
		buf.WriteByte(0) // Null terminator
	default:
		buf.WriteByte(2)
		buf.WriteString(fmt.Sprintf("%v", v))
		buf.WriteByte(0)
	}
}

// IndexManager manages multiple secondary indexes for a partition.
type IndexManager struct {
	indexes map[string]*SecondaryIndex
	mutex   sync.RWMutex
	order   int
}

// NewIndexManager creates a new index manager.
func NewIndexManager(order int) *IndexManager {
	return &IndexManager{
		indexes: make(map[string]*SecondaryIndex),
		order:   order,
	}
}

// GetOrCreateIndex gets an existing index or creates a new one for a field.
func (im *IndexManager) GetOrCreateIndex(fieldName string) *SecondaryIndex {
	im.mutex.Lock()
	defer im.mutex.Unlock()

	if idx, exists := im.indexes[fieldName]; exists {
		return idx
	}

	idx := NewSecondaryIndex(fieldName, im.order)
	im.indexes[fieldName] = idx
	return idx
}

// SaveAll saves all indexes to disk.
func (im *IndexManager) SaveAll(dir string) error {
	im.mutex.RLock()
	defer im.mutex.RUnlock()

	for _, idx := range im.indexes {
		if err := idx.Save(dir); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll loads all indexes from disk.
func (im *IndexManager) LoadAll(dir string) error {
	im.mutex.Lock()
	defer im.mutex.Unlock()

	pattern := filepath.Join(dir, "index_*.dat")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, file := range files {
		filename := filepath.Base(file)
		if len(filename) < 10 { // "index_.dat" is 10 chars minimum
			continue
		}

		fieldName := filename[6 : len(filename)-4] // strip "index_" / ".dat"

		idx := NewSecondaryIndex(fieldName, im.order)
		if err := idx.Load(dir); err != nil {
			return err
		}

		im.indexes[fieldName] = idx
	}

	return nil
}
