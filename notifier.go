// Copyright (c) 2025 census contributors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package census

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/gammazero/deque"

	"github.com/censuslib/census/internal/spinlock"
)

// OnIdle registers fn to run after a Release drops the live count of T to
// zero. It fires on every such drop, not only the first. Passing nil removes
// the handler; a type has at most one handler.
//
// fn runs on the releasing goroutine, outside the counting hot path. A panic
// in fn is recovered and reported through the Logger.
func OnIdle[T any](fn func()) {
	globalNotifier.set(keyOf[T](), fn)
}

func notifyIdle(key reflect.Type) {
	globalNotifier.notify(key)
}

type idleEvent struct {
	fn   func()
	name string
}

// notifier queues idle events under a spinlock and hands them to whichever
// releasing goroutine holds the drain flag. Handlers therefore never run
// inside the cell update and never run on two goroutines at once.
type notifier struct {
	mutex    spinlock.SpinLock
	handlers map[reflect.Type]func()
	pending  *deque.Deque[idleEvent]
	draining atomic.Bool
}

var globalNotifier = &notifier{
	handlers: make(map[reflect.Type]func()),
	pending:  deque.New[idleEvent](),
}

func (n *notifier) set(key reflect.Type, fn func()) {
	n.mutex.Lock()
	if fn == nil {
		delete(n.handlers, key)
	} else {
		n.handlers[key] = fn
	}
	n.mutex.Unlock()
}

func (n *notifier) notify(key reflect.Type) {
	n.mutex.Lock()
	fn, ok := n.handlers[key]
	if !ok {
		n.mutex.Unlock()
		return
	}
	n.pending.PushBack(idleEvent{
		fn:   fn,
		name: key.String(),
	})
	n.mutex.Unlock()
	n.drain()
}

// drain runs queued events until the queue is empty. Losing the drain flag is
// fine: the event was queued first, so either the current drainer picks it up
// or, in the narrow window where it is already on its way out, the event waits
// for the next release. Delivery is best effort, not immediate.
func (n *notifier) drain() {
	if !n.draining.CompareAndSwap(false, true) {
		return
	}
	defer n.draining.Store(false)
	for {
		n.mutex.Lock()
		if n.pending.Len() == 0 {
			n.mutex.Unlock()
			return
		}
		event := n.pending.PopFront()
		n.mutex.Unlock()
		n.call(event)
	}
}

func (n *notifier) call(event idleEvent) {
	defer func() {
		if r := recover(); r != nil {
			getLogger().Error(
				context.Background(),
				"census: idle handler panicked for "+event.name,
				fmt.Errorf("%v", r),
			)
		}
	}()
	event.fn()
}
