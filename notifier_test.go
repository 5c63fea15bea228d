package census_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/censuslib/census"
)

type recordingLogger struct {
	mutex  sync.Mutex
	errors []string
}

func (rl *recordingLogger) Warn(ctx context.Context, msg string, err error) {}

func (rl *recordingLogger) Error(ctx context.Context, msg string, err error) {
	rl.mutex.Lock()
	rl.errors = append(rl.errors, msg)
	rl.mutex.Unlock()
}

func TestOnIdle(t *testing.T) {
	type pooled struct{}
	census.Enable(true)

	idle := 0
	census.OnIdle[pooled](func() {
		idle++
	})
	defer census.OnIdle[pooled](nil)

	a := census.NewCount[pooled]()
	b := census.NewCount[pooled]()
	a.Release()
	require.Zero(t, idle)
	b.Release()
	require.Equal(t, 1, idle)

	// Fires on every drop to zero, not only the first.
	c := census.NewCount[pooled]()
	c.Release()
	require.Equal(t, 2, idle)
}

func TestOnIdleRemoved(t *testing.T) {
	type muted struct{}
	census.Enable(true)

	census.OnIdle[muted](func() {
		t.Fatal("removed handler fired")
	})
	census.OnIdle[muted](nil)

	c := census.NewCount[muted]()
	c.Release()
}

func TestOnIdlePanic(t *testing.T) {
	type panicky struct{}
	census.Enable(true)

	logger := &recordingLogger{}
	census.SetLogger(logger)
	defer census.SetLogger(nil)

	census.OnIdle[panicky](func() {
		panic("boom")
	})
	defer census.OnIdle[panicky](nil)

	c := census.NewCount[panicky]()
	require.NotPanics(t, c.Release)
	require.Len(t, logger.errors, 1)
	require.Contains(t, logger.errors[0], "census_test.panicky")
}

func TestOnIdleUnregisteredType(t *testing.T) {
	type plain struct{}
	census.Enable(true)

	c := census.NewCount[plain]()
	c.Release()
}
