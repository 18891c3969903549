package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TickInterval is the wall-clock period between elapsed-second increments.
const TickInterval = time.Second

// Timer counts whole elapsed seconds. Each tick adds exactly one second
// and invokes onTick with the new value. Stop halts ticking; nothing
// restarts it except an explicit Start.
//
// onTick runs on the timer's own goroutine, outside the timer's lock.
type Timer struct {
	clock  clockwork.Clock
	onTick func(elapsed int)

	mu      sync.Mutex
	elapsed int
	run     uint64 // incremented by Start and Stop; a tick from an older run is dropped
	ticker  clockwork.Ticker
	done    chan struct{}
}

// NewTimer builds a stopped timer at zero elapsed seconds. Sessions build a
// new Timer for every board instead of rewinding an old one.
func NewTimer(clock clockwork.Clock, onTick func(elapsed int)) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if onTick == nil {
		onTick = func(int) {}
	}
	return &Timer{clock: clock, onTick: onTick}
}

// Start begins ticking. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		return
	}
	t.run++
	t.ticker = t.clock.NewTicker(TickInterval)
	t.done = make(chan struct{})
	go t.loop(t.run, t.ticker, t.done)
}

// Stop halts ticking. It does not wait for the ticking goroutine, so it is
// safe to call from inside onTick's caller chain.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker == nil {
		return
	}
	t.run++
	t.ticker.Stop()
	close(t.done)
	t.ticker, t.done = nil, nil
}

// Elapsed returns whole seconds counted so far.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *Timer) running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticker != nil
}

func (t *Timer) loop(run uint64, ticker clockwork.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			t.mu.Lock()
			if t.run != run {
				t.mu.Unlock()
				return
			}
			t.elapsed++
			e := t.elapsed
			t.mu.Unlock()
			t.onTick(e)
		}
	}
}
