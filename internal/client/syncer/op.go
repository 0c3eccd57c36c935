package syncer

import (
	"context"

	"github.com/fastygo/spicecms/domain"
)

// Outcome tells whether the backend confirmed a mutation. Consumers are free
// to ignore it: both outcomes count as success.
type Outcome int

const (
	// OutcomeSynced means the backend accepted the write.
	OutcomeSynced Outcome = iota + 1
	// OutcomeLocalOnly means the backend was unreachable and only the local
	// copy holds the change.
	OutcomeLocalOnly
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeLocalOnly:
		return "local-only"
	default:
		return "pending"
	}
}

// LoadSource records where the initial state came from.
type LoadSource int

const (
	LoadDefaults LoadSource = iota
	LoadRemote
	LoadLocal
)

func (s LoadSource) String() string {
	switch s {
	case LoadRemote:
		return "remote"
	case LoadLocal:
		return "local"
	default:
		return "defaults"
	}
}

// Result is the settled outcome of an Op.
type Result struct {
	Outcome Outcome
	// Enquiry is the canonical record for AddEnquiry: the server's on
	// OutcomeSynced, the locally assigned one otherwise.
	Enquiry *domain.Enquiry
	// Source is set by the initial load only.
	Source LoadSource
	// Cause is the swallowed backend error behind OutcomeLocalOnly.
	Cause error
}

// Op is a handle on the remote half of a mutation.
type Op struct {
	done chan struct{}
	res  Result
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

func settled(res Result) *Op {
	op := newOp()
	op.finish(res)
	return op
}

// Done is closed once the backend call has finished or failed.
func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the op settles or ctx ends. The only error it returns
// is ctx.Err(); backend failures are reported through Result.
func (o *Op) Wait(ctx context.Context) (Result, error) {
	select {
	case <-o.done:
		return o.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (o *Op) finish(res Result) {
	o.res = res
	close(o.done)
}
