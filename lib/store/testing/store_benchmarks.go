package testing

import (
	"fmt"
	"github.com/ValentinKolb/respkv/lib/store"
	"github.com/ValentinKolb/respkv/rpc/codec"
	"math/rand"
	"sync/atomic"
	"testing"
)

// RunStoreBenchmarks runs all benchmarks for a store implementation
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})

		b.Run("SetLargeValue", func(b *testing.B) {
			benchmarkSetLargeValue(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Incr", func(b *testing.B) {
			benchmarkIncr(b, factory())
		})

		b.Run("RPush&LPop", func(b *testing.B) {
			benchmarkPushPop(b, factory())
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", counter)
			if err := s.Set(key, codec.Text(fmt.Sprintf("test-value-%d", counter))); err != nil {
				b.Errorf("Set failed: %v", err)
			}
			counter++
		}
	})
}

func benchmarkSetLargeValue(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	largeValue := make([]byte, 1*1024*1024) // 1MB
	b.SetBytes(int64(len(largeValue)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Set("large-key", codec.Bytes(largeValue)); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}

func benchmarkGet(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	// Prepare data
	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		if err := s.Set(fmt.Sprintf("test-key-%d", i), codec.Text(fmt.Sprintf("test-value-%d", i))); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			if _, err := s.Get(fmt.Sprintf("test-key-%d", counter%numKeys)); err != nil {
				b.Errorf("Get failed: %v", err)
			}
			counter++
		}
	})
}

func benchmarkIncr(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := s.Incr("counter"); err != nil {
				b.Errorf("Incr failed: %v", err)
			}
		}
	})
}

func benchmarkPushPop(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.RPush("queue", codec.Number(int64(i))); err != nil {
			b.Fatalf("RPush failed: %v", err)
		}
		if _, err := s.LPop("queue"); err != nil {
			b.Fatalf("LPop failed: %v", err)
		}
	}
}

// Mixed read/write workload: 80% reads, 15% writes, 5% deletes
func benchmarkMixedUsage(b *testing.B, s store.IStore) {
	b.Cleanup(func() {
		s.Close()
	})

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		if err := s.Set(fmt.Sprintf("test-key-%d", i), codec.Number(int64(i))); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}

	var seed int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		for pb.Next() {
			key := fmt.Sprintf("test-key-%d", r.Intn(numKeys))
			var err error
			switch op := r.Intn(100); {
			case op < 80:
				_, err = s.Get(key)
			case op < 95:
				err = s.Set(key, codec.Number(int64(op)))
			default:
				_, err = s.Del(key)
			}
			if err != nil {
				b.Errorf("operation on %s failed: %v", key, err)
			}
		}
	})
}
