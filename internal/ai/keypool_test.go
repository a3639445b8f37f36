package ai

import (
	"errors"
	"sync"
	"testing"
)

func TestKeyPool_RoundRobinCycle(t *testing.T) {
	keys := []string{"gsk_a", "gsk_b", "gsk_c"}
	pool := NewKeyPool(keys)

	// 两整圈必须按同一循环顺序返回每把凭证各两次。
	for round := 0; round < 2; round++ {
		for i, want := range keys {
			got, err := pool.Next()
			if err != nil {
				t.Fatalf("round %d pick %d: %v", round, i, err)
			}
			if got != want {
				t.Fatalf("round %d pick %d: got %q want %q", round, i, got, want)
			}
		}
	}
}

func TestKeyPool_EmptyFailsFast(t *testing.T) {
	pool := NewKeyPool(nil)
	for i := 0; i < 3; i++ {
		_, err := pool.Next()
		if err == nil {
			t.Fatal("expected error from empty pool")
		}
		var aiErr *Error
		if !errors.As(err, &aiErr) || aiErr.Kind != KindNotConfigured {
			t.Fatalf("expected not_configured, got %v", err)
		}
	}
}

func TestKeyPool_SingleKeyAlwaysReturned(t *testing.T) {
	pool := NewKeyPool([]string{"gsk_only"})
	for i := 0; i < 5; i++ {
		got, err := pool.Next()
		if err != nil {
			t.Fatal(err)
		}
		if got != "gsk_only" {
			t.Fatalf("got %q", got)
		}
	}
}

func TestKeyPool_ConcurrentNextNeverPanics(t *testing.T) {
	pool := NewKeyPool([]string{"a", "b", "c"})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, err := pool.Next(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestKeyPool_Masked(t *testing.T) {
	pool := NewKeyPool([]string{"gsk_1234567890abcdef"})
	masked := pool.Masked()
	if len(masked) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(masked))
	}
	if masked[0].Masked != "gsk_1234..." {
		t.Fatalf("got %q", masked[0].Masked)
	}
	if masked[0].Length != len("gsk_1234567890abcdef") {
		t.Fatalf("got length %d", masked[0].Length)
	}
}
