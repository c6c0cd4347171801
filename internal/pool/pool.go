package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs jobs on a bounded number of goroutines. The first job error
// cancels the context handed to the remaining jobs.
type Pool struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewPool creates a pool with a goroutine limit. A limit below one means
// no limit.
func NewPool(ctx context.Context, routines int) *Pool {
	g, ctx := errgroup.WithContext(ctx)
	if routines > 0 {
		g.SetLimit(routines)
	}
	return &Pool{g: g, ctx: ctx}
}

// Go blocks until a worker is free, then runs job on it.
func (p *Pool) Go(job func(ctx context.Context) error) {
	p.g.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		return job(p.ctx)
	})
}

// Wait waits until the pool is finished and returns the first job error.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

// Each runs job for every index in [0, n) and waits for all of them.
func Each(ctx context.Context, routines, n int, job func(ctx context.Context, i int) error) error {
	p := NewPool(ctx, routines)
	for i := 0; i < n; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			return job(ctx, i)
		})
	}
	return p.Wait()
}
