package main

import (
	"fmt"

	"github.com/censuslib/census"
)

type Worker struct {
	c census.Count[Worker]
}

func main() {
	census.Enable(true)

	// The handler runs every time the last live Worker is released.
	census.OnIdle[Worker](func() {
		fmt.Println("all workers are done")
	})

	workers := make([]*Worker, 0, 4)
	for i := 0; i < 4; i++ {
		workers = append(workers, &Worker{c: census.NewCount[Worker]()})
	}
	for _, w := range workers {
		w.c.Release()
	}
}
