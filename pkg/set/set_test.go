package set

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSetBasics(t *testing.T) {
	s := NewStringSet("a", "b")

	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	s.Add("c")
	assert.True(t, s.Contains("c"))
	assert.Equal(t, 3, s.Size())

	s.Remove("a", "b")
	assert.Equal(t, 1, s.Size())
	assert.False(t, s.Contains("a"))
	assert.True(t, s.Contains("c"))
}

func TestStringSetConcurrentReadersAndWriters(t *testing.T) {
	s := NewStringSet()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Add(fmt.Sprintf("%d-%d", w, i))
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Contains(fmt.Sprintf("0-%d", i))
				s.Size()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, s.Size())
}
