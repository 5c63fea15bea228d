package main

import (
	"fmt"

	"github.com/censuslib/census"
)

// Widget carries a census guard, so every construction and release is
// counted while counting is enabled.
type Widget struct {
	c census.Count[Widget]
}

func NewWidget() *Widget {
	return &Widget{c: census.NewCount[Widget]()}
}

func (w *Widget) Close() {
	w.c.Release()
}

func main() {
	// Counting is off by default; turn it on before creating anything.
	census.Enable(true)

	w1 := NewWidget()
	w2 := NewWidget()
	w3 := NewWidget()
	w1.Close()

	counts := census.Get[Widget]()
	fmt.Printf("live: %d, max_live: %d, total: %d\n", counts.Live, counts.MaxLive, counts.Total)
	// Output: live: 2, max_live: 3, total: 3

	w2.Close()
	w3.Close()
}
