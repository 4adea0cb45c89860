package transaction

import (
	"context"
	"sync"
)

type outcome struct {
	result *TransactionResult
	err    error
}

// Pending is an operation that was started at creation; every Await sees the
// same outcome.
type Pending struct {
	done    chan struct{}
	once    sync.Once
	outcome outcome
}

// NewPending starts fn in its own goroutine. fn receives ctx; cancelling it
// is the only way to stop the work.
func NewPending(ctx context.Context, fn OperationFunc) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		res, err := fn(ctx)
		p.resolve(res, err)
	}()
	return p
}

// Resolved wraps a known outcome, for callers that already have one.
func Resolved(result *TransactionResult, err error) *Pending {
	p := &Pending{done: make(chan struct{})}
	p.resolve(result, err)
	return p
}

func (p *Pending) resolve(result *TransactionResult, err error) {
	p.once.Do(func() {
		p.outcome = outcome{result: result, err: err}
		close(p.done)
	})
}

// Await blocks until the operation finishes or ctx is done. A cancelled
// Await does not cancel the operation itself.
func (p *Pending) Await(ctx context.Context) (*TransactionResult, error) {
	select {
	case <-p.done:
		return p.outcome.result, p.outcome.err
	default:
	}
	select {
	case <-p.done:
		return p.outcome.result, p.outcome.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the outcome is known.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}
