package provider

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheGetOrFetchCachesValue(t *testing.T) {
	c := NewCache(1 << 20)
	var calls int32
	key := []byte("k1")

	fetch := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v1"), nil
	}

	v1, err := c.GetOrFetch(key, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := c.GetOrFetch(key, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(v1) != "v1" || string(v2) != "v1" {
		t.Errorf("values = %q, %q, want v1 both times", v1, v2)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestCacheGetOrFetchDedupsConcurrentCallers(t *testing.T) {
	c := NewCache(1 << 20)
	var calls int32
	key := []byte("k2")
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func() ([]byte, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			close(started)
			<-release
		}
		return []byte("v2"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := c.GetOrFetch(key, fetch)
			results[i] = v
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	for i, v := range results {
		if string(v) != "v2" {
			t.Errorf("results[%d] = %q, want v2", i, v)
		}
	}
}

func TestCacheGetMissing(t *testing.T) {
	c := NewCache(1 << 20)
	if _, ok := c.Get([]byte("absent")); ok {
		t.Error("expected miss for absent key")
	}
}
