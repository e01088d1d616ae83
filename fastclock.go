package jregex

import (
	"sync"
	"sync/atomic"
	"time"
)

// fasttime is a coarse clock reading. A background goroutine advances it
// once per clockPeriod while any match with a timeout is running, so the
// matcher can check its deadline without calling time.Now.
type fasttime int64

// maxDeadline is used for matches without a timeout.
const maxDeadline = fasttime(1<<63 - 1)

// clockPeriod is the granularity of timeout checks.
var clockPeriod = 100 * time.Millisecond

type atomicTime struct{ v atomic.Int64 }

func (t *atomicTime) read() fasttime   { return fasttime(t.v.Load()) }
func (t *atomicTime) write(v fasttime) { t.v.Store(int64(v)) }

type fastclock struct {
	// current and clockEnd are read without the mutex
	current  atomicTime
	clockEnd atomicTime

	mu      sync.Mutex
	start   time.Time
	running bool
}

var fast fastclock

// reached reports whether the deadline has passed.
func (t fasttime) reached() bool {
	return fast.current.read() >= t
}

// makeDeadline returns a deadline d from now and makes sure the clock runs
// at least until then.
func makeDeadline(d time.Duration) fasttime {
	fast.mu.Lock()
	defer fast.mu.Unlock()

	if fast.start.IsZero() {
		fast.start = time.Now()
	}
	// a stopped clock is stale; bring it up to date first
	if !fast.running {
		fast.current.write(durationToTicks(time.Since(fast.start)))
	}

	end := fast.current.read() + durationToTicks(d+clockPeriod)
	if end > fast.clockEnd.read() {
		fast.clockEnd.write(end)
	}
	if !fast.running {
		fast.running = true
		go runClock()
	}
	return end
}

func runClock() {
	fast.mu.Lock()
	defer fast.mu.Unlock()

	for fast.current.read() <= fast.clockEnd.read() {
		fast.mu.Unlock()
		time.Sleep(clockPeriod)
		fast.mu.Lock()

		fast.current.write(durationToTicks(time.Since(fast.start)))
	}
	fast.running = false
}

// durationToTicks downscales nanoseconds to roughly microseconds so huge
// timeouts cannot overflow.
func durationToTicks(d time.Duration) fasttime {
	return fasttime(d >> 10)
}

// SetTimeoutCheckPeriod changes how often the timeout clock ticks. Shorter
// periods make timeouts more precise at some CPU cost. It stops the clock,
// so it should be called before matching starts.
func SetTimeoutCheckPeriod(d time.Duration) {
	StopTimeoutClock()
	fast.mu.Lock()
	clockPeriod = d
	fast.mu.Unlock()
}

// StopTimeoutClock stops the background clock goroutine. It restarts on
// the next match that has a timeout.
func StopTimeoutClock() {
	fast.mu.Lock()
	fast.clockEnd.write(0)
	for fast.running {
		fast.mu.Unlock()
		time.Sleep(clockPeriod / 10)
		fast.mu.Lock()
	}
	fast.mu.Unlock()
}
