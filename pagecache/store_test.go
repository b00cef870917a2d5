package pagecache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_QueryStringIsPartOfKey(t *testing.T) {
	s := New[int]()
	s.Set("https://a.example/?page=1", 1)
	s.Set("https://a.example/?page=2", 2)

	v, ok := s.Get("https://a.example/?page=1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("https://a.example/")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStore_LastWriterWins(t *testing.T) {
	s := New[string]()
	s.Set("u", "first")
	s.Set("u", "second")

	v, _ := s.Get("u")
	assert.Equal(t, "second", v)

	_, ok := s.StoredAt("u")
	assert.True(t, ok)
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := New[int]()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	s.Delete("a", "missing")
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://a.example/%d", i%5)
			s.Set(url, i)
			s.Get(url)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}
