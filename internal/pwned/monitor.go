package pwned

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietPeriod between the last input change and the check firing.
const DefaultQuietPeriod = 800 * time.Millisecond

// CheckFunc is the check invoked after the quiet period. Checker.Check
// satisfies it.
type CheckFunc func(ctx context.Context, password string) (Result, error)

// Verdict pairs a check outcome with the input that produced it. Err set
// means the check could not be completed and the password's status is
// unknown, not safe.
type Verdict struct {
	Password string
	Result   Result
	Err      error
}

// Monitor debounces password input and runs checks so that only the most
// recent input's outcome is ever delivered. A slower check for a superseded
// password is discarded even if it completes after a newer one: last write
// wins by input identity, not by completion order.
type Monitor struct {
	check CheckFunc
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	verdicts chan Verdict
	done     chan struct{}
}

func NewMonitor(check CheckFunc, quiet time.Duration) *Monitor {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Monitor{
		check:    check,
		quiet:    quiet,
		verdicts: make(chan Verdict, 1),
		done:     make(chan struct{}),
	}
}

// Update registers new input. The pending timer resets; any in-flight check
// result for earlier input will be dropped.
func (m *Monitor) Update(password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	gen := m.gen
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.quiet, func() {
		m.run(gen, password)
	})
}

func (m *Monitor) run(gen uint64, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	res, err := m.check(ctx, password)

	m.mu.Lock()
	stale := gen != m.gen
	m.mu.Unlock()
	if stale {
		return
	}

	v := Verdict{Password: password, Result: res, Err: err}
	// Replace an unconsumed verdict rather than blocking the worker.
	for {
		select {
		case <-m.done:
			return
		case m.verdicts <- v:
			return
		default:
			select {
			case <-m.verdicts:
			default:
			}
		}
	}
}

// Verdicts delivers at most the latest outcome; consumers that fall behind
// see only the newest verdict.
func (m *Monitor) Verdicts() <-chan Verdict {
	return m.verdicts
}

// Close stops the pending timer and releases the monitor. No verdicts are
// delivered afterwards.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
	}
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}
