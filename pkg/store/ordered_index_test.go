package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderedIndex(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	assert.NotNil(t, idx)
	assert.Equal(t, 0, idx.Size())
}

func TestOrderedIndex_PutAndGet(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	key := []byte("test_key")
	entry := &IndexEntry{
		FileID:    1,
		Offset:    100,
		Size:      50,
		Timestamp: 1234567890,
	}

	idx.Put(key, entry)

	retrieved, exists := idx.Get(key)
	assert.True(t, exists)
	assert.NotNil(t, retrieved)
	assert.Equal(t, entry.FileID, retrieved.FileID)
	assert.Equal(t, entry.Offset, retrieved.Offset)
	assert.Equal(t, entry.Size, retrieved.Size)
	assert.Equal(t, entry.Timestamp, retrieved.Timestamp)
}

func TestOrderedIndex_Get_NonExistent(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	entry, exists := idx.Get([]byte("non_existent_key"))

	assert.False(t, exists)
	assert.Nil(t, entry)
}

func TestOrderedIndex_Put_Overwrite(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	key := []byte("test_key")

	entry1 := &IndexEntry{FileID: 1, Offset: 100, Size: 50, Timestamp: 1234567890}
	idx.Put(key, entry1)

	entry2 := &IndexEntry{FileID: 2, Offset: 200, Size: 75, Timestamp: 1234567891}
	idx.Put(key, entry2)

	retrieved, exists := idx.Get(key)
	assert.True(t, exists)
	assert.Equal(t, entry2.FileID, retrieved.FileID)
	assert.Equal(t, entry2.Offset, retrieved.Offset)
	assert.Equal(t, entry2.Size, retrieved.Size)
	assert.Equal(t, entry2.Timestamp, retrieved.Timestamp)
	assert.Equal(t, 1, idx.Size())
}

func TestOrderedIndex_Delete(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	key := []byte("test_key")
	idx.Put(key, &IndexEntry{FileID: 1, Offset: 100, Size: 50, Timestamp: 1234567890})

	_, exists := idx.Get(key)
	assert.True(t, exists)

	idx.Delete(key)

	_, exists = idx.Get(key)
	assert.False(t, exists)
}

func TestOrderedIndex_Size(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	assert.Equal(t, 0, idx.Size())

	idx.Put([]byte("key1"), &IndexEntry{})
	idx.Put([]byte("key2"), &IndexEntry{})
	idx.Put([]byte("key3"), &IndexEntry{})

	assert.Equal(t, 3, idx.Size())

	idx.Delete([]byte("key2"))
	assert.Equal(t, 2, idx.Size())

	idx.Clear()
	assert.Equal(t, 0, idx.Size())
}

func TestOrderedIndex_Keys_AreSorted(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	keys := [][]byte{[]byte("key3"), []byte("key1"), []byte("key2")}
	for _, key := range keys {
		idx.Put(key, &IndexEntry{})
	}

	retrievedKeys := idx.Keys()
	assert.Equal(t, []string{"key1", "key2", "key3"}, retrievedKeys)
}

func TestOrderedIndex_KeysWithPrefix(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	keys := []string{"user:1", "user:2", "item:1", "item:2", "order:1"}
	for _, key := range keys {
		idx.Put([]byte(key), &IndexEntry{})
	}

	userKeys := idx.KeysWithPrefix("user:")
	assert.Len(t, userKeys, 2)
	assert.Contains(t, userKeys, "user:1")
	assert.Contains(t, userKeys, "user:2")

	itemKeys := idx.KeysWithPrefix("item:")
	assert.Len(t, itemKeys, 2)

	orderKeys := idx.KeysWithPrefix("order:")
	assert.Len(t, orderKeys, 1)
	assert.Contains(t, orderKeys, "order:1")

	nonExistentKeys := idx.KeysWithPrefix("nonexistent:")
	assert.Len(t, nonExistentKeys, 0)
}

func TestOrderedIndex_ScanPrefix(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	keys := []string{"user:1", "user:2", "user:3", "item:1"}
	for _, key := range keys {
		idx.Put([]byte(key), &IndexEntry{})
	}

	ch := idx.ScanPrefix("user:")
	var userKeys []string
	for key := range ch {
		userKeys = append(userKeys, key)
	}

	assert.Equal(t, []string{"user:1", "user:2", "user:3"}, userKeys)
}

func TestOrderedIndex_ScanPrefix_EmptyResult(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	idx.Put([]byte("user:1"), &IndexEntry{})
	idx.Put([]byte("item:1"), &IndexEntry{})

	ch := idx.ScanPrefix("nonexistent:")
	var keys []string
	for key := range ch {
		keys = append(keys, key)
	}

	assert.Len(t, keys, 0)
}

func TestOrderedIndex_RangeScan(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	for i := 0; i < 10; i++ {
		idx.Put([]byte(fmt.Sprintf("k%02d", i)), &IndexEntry{Offset: int64(i)})
	}

	pairs, err := idx.RangeScan([]byte("k03"), []byte("k06"))
	assert.NoError(t, err)
	assert.Len(t, pairs, 4)
	for i, p := range pairs {
		assert.Equal(t, fmt.Sprintf("k%02d", i+3), string(p.Key))
	}
}

func TestOrderedIndex_Clear(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	idx.Put([]byte("key1"), &IndexEntry{})
	idx.Put([]byte("key2"), &IndexEntry{})
	assert.Equal(t, 2, idx.Size())

	idx.Clear()
	assert.Equal(t, 0, idx.Size())

	_, exists := idx.Get([]byte("key1"))
	assert.False(t, exists)
}

func TestOrderedIndex_Stats(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	stats := idx.Stats()
	assert.Equal(t, 0, stats.TotalKeys)

	idx.Put([]byte("key1"), &IndexEntry{})
	idx.Put([]byte("key2"), &IndexEntry{})
	idx.Put([]byte("key3"), &IndexEntry{})

	stats = idx.Stats()
	assert.Equal(t, 3, stats.TotalKeys)
	assert.GreaterOrEqual(t, stats.NodeCount, 1)
}

func TestOrderedIndex_ConcurrentAccess(t *testing.T) {
	idx := NewHashIndex(HashIndexConfig{})

	done := make(chan bool, 3)

	go func() {
		for i := 0; i < 100; i++ {
			key := []byte(fmt.Sprintf("key_%d", i))
			entry := &IndexEntry{
				FileID:    uint32(i % 10),
				Offset:    int64(i * 100),
				Size:      50,
				Timestamp: uint64(i),
			}
			idx.Put(key, entry)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 50; i++ {
			key := []byte(fmt.Sprintf("key_%d", i%100))
			idx.Get(key)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 50; i++ {
			idx.Size()
			idx.Keys()
		}
		done <- true
	}()

	<-done
	<-done
	<-done
}

func BenchmarkOrderedIndex_Put(b *testing.B) {
	idx := NewHashIndex(HashIndexConfig{PoolSize: b.N + 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench_key_%d", i))
		idx.Put(key, &IndexEntry{FileID: uint32(i % 10), Offset: int64(i * 100), Size: 50, Timestamp: uint64(i)})
	}
}

func BenchmarkOrderedIndex_Get(b *testing.B) {
	idx := NewHashIndex(HashIndexConfig{PoolSize: 10001})

	for i := 0; i < 10000; i++ {
		key := []byte(fmt.Sprintf("bench_key_%d", i))
		idx.Put(key, &IndexEntry{FileID: uint32(i % 10), Offset: int64(i * 100), Size: 50, Timestamp: uint64(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench_key_%d", i%10000))
		idx.Get(key)
	}
}

func BenchmarkOrderedIndex_KeysWithPrefix(b *testing.B) {
	idx := NewHashIndex(HashIndexConfig{PoolSize: 10001})

	for i := 0; i < 10000; i++ {
		key := []byte(fmt.Sprintf("user:%d", i))
		idx.Put(key, &IndexEntry{FileID: uint32(i % 10), Offset: int64(i * 100), Size: 50, Timestamp: uint64(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.KeysWithPrefix("user:")
	}
}
