package counter

import (
	"sync"
	"testing"
)

func TestCellInc(t *testing.T) {
	c := New("widget")
	for i := 1; i <= 1000; i++ {
		c.Inc()
		got := c.Read()
		want := Counts{Total: uint64(i), MaxLive: uint64(i), Live: uint64(i)}
		if got != want {
			t.Fatalf("after %d incs got %+v, want %+v", i, got, want)
		}
	}
}

func TestCellDec(t *testing.T) {
	c := New("widget")
	const n = 100
	for i := 0; i < n; i++ {
		c.Inc()
	}
	for i := 1; i <= n; i++ {
		last := c.Dec()
		if last != (i == n) {
			t.Fatalf("dec %d returned %v", i, last)
		}
		got := c.Read()
		want := Counts{Total: n, MaxLive: n, Live: uint64(n - i)}
		if got != want {
			t.Fatalf("after %d decs got %+v, want %+v", i, got, want)
		}
	}
}

func TestCellMaxLive(t *testing.T) {
	c := New("widget")
	// Never more than two live at once.
	c.Inc()
	c.Inc()
	c.Dec()
	c.Inc()
	c.Dec()
	c.Dec()
	got := c.Read()
	want := Counts{Total: 3, MaxLive: 2, Live: 0}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCellName(t *testing.T) {
	c := New("main.Widget")
	if c.Name() != "main.Widget" {
		t.Fatalf("got name %q", c.Name())
	}
}

func TestCellParallel(t *testing.T) {
	const (
		goroutines = 8
		pairs      = 10000
	)
	c := New("widget")
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < pairs; j++ {
				c.Inc()
				c.Dec()
			}
		}()
	}
	wg.Wait()
	got := c.Read()
	if got.Total != goroutines*pairs {
		t.Fatalf("got total %d, want %d", got.Total, goroutines*pairs)
	}
	if got.Live != 0 {
		t.Fatalf("got live %d, want 0", got.Live)
	}
	if got.MaxLive < 1 || got.MaxLive > goroutines*pairs {
		t.Fatalf("got maxLive %d, want between 1 and %d", got.MaxLive, goroutines*pairs)
	}
}

func BenchmarkCellInc(b *testing.B) {
	c := New("widget")
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Inc()
		}
	})
}

func BenchmarkCellIncDec(b *testing.B) {
	c := New("widget")
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Inc()
			c.Dec()
		}
	})
}
