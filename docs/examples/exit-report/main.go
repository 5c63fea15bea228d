package main

import (
	"os"

	"github.com/censuslib/census"
)

type Session struct {
	c census.Count[Session]
}

type Request struct {
	c census.Count[Request]
}

func main() {
	census.Enable(true)
	// The deferred call prints the final table to stderr when main returns:
	//
	//	main.Request       10_000       10_000            0
	//	main.Session            3            3            3
	//	                    total     max_live         live
	defer census.ExitReport(os.Stderr)()

	sessions := make([]*Session, 0, 3)
	for i := 0; i < 3; i++ {
		sessions = append(sessions, &Session{c: census.NewCount[Session]()})
	}

	for i := 0; i < 10_000; i++ {
		r := &Request{c: census.NewCount[Request]()}
		r.c.Release()
	}

	_ = sessions
}
