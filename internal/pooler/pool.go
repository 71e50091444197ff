// Package pooler hands out a bounded number of reusable resources, such as
// read connections to the same database file.
package pooler

import (
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Get and Do once the pool is closed.
var ErrPoolClosed = errors.New("pool is closed")

type Config[T any] struct {
	// MaxItems is the maximum total number of items allowed in the pool.
	// Must be greater than zero.
	MaxItems int
	// MaxIdle is the maximum number of items allowed to remain idle.
	// Must be greater than or equal to zero.
	// Must not exceed MaxItems.
	MaxIdle int
	// NewFunc is the function to create a new item.
	NewFunc func() (T, error)
	// CloseFunc is the function to close an item.
	CloseFunc func(T) error
}

// Stats is a snapshot of the pool counters.
type Stats struct {
	// Total is the number of live items, idle or checked out.
	Total int
	// Idle is the number of items waiting in the pool.
	Idle int
	// InUse is the number of checked out items.
	InUse int
	// Created is the number of items created since the pool was opened.
	Created uint64
	// Waits is the number of Get calls that had to block for an item.
	Waits uint64
}

// Pool is a generic, thread-safe pool for any resource type T.
// It enforces a maximum number of total items (maxItems) and a maximum
// number of idle items (maxIdle). When Put() is called, if maxIdle is reached,
// the resource is closed rather than stored.
type Pool[T any] struct {
	Config[T]

	mu     sync.Mutex
	cond   *sync.Cond
	closed bool

	totalItems int
	idleItems  []T
	created    uint64
	waits      uint64
}

// NewPool creates a Pool with the limits and functions of config.
func NewPool[T any](config Config[T]) (*Pool[T], error) {
	if config.MaxItems <= 0 {
		return nil, errors.New("maxItems must be greater than zero")
	}
	if config.MaxIdle < 0 {
		return nil, errors.New("maxIdle cannot be negative")
	}
	if config.MaxIdle > config.MaxItems {
		return nil, errors.New("maxIdle cannot exceed maxItems")
	}
	if config.NewFunc == nil {
		return nil, errors.New("newFunc must not be nil")
	}
	if config.CloseFunc == nil {
		return nil, errors.New("closeFunc must not be nil")
	}

	p := &Pool[T]{
		Config:    config,
		idleItems: make([]T, 0, config.MaxIdle),
	}
	p.cond = sync.NewCond(&p.mu)
	return p, nil
}

// Get retrieves a resource from the pool. If the pool is closed,
// ErrPoolClosed is returned. If there are no idle items and the pool
// has reached maxItems, this call will block until an item is Put back.
func (p *Pool[T]) Get() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	waited := false
	for {
		if p.closed {
			var zero T
			return zero, ErrPoolClosed
		}

		if len(p.idleItems) > 0 {
			idx := len(p.idleItems) - 1
			res := p.idleItems[idx]
			p.idleItems = p.idleItems[:idx]
			return res, nil
		}

		if p.totalItems < p.MaxItems {
			res, err := p.NewFunc()
			if err != nil {
				var zero T
				return zero, err
			}
			p.totalItems++
			p.created++
			return res, nil
		}

		if !waited {
			waited = true
			p.waits++
		}
		p.cond.Wait()
	}
}

// Put returns a resource to the pool. If the pool is closed,
// or if maxIdle is already reached, the resource will be closed.
func (p *Pool[T]) Put(res T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.totalItems--
		return p.CloseFunc(res)
	}

	if len(p.idleItems) < p.MaxIdle {
		p.idleItems = append(p.idleItems, res)
		p.cond.Signal()
		return nil
	}

	p.totalItems--
	p.cond.Signal()
	return p.CloseFunc(res)
}

// Discard closes a checked out resource instead of returning it, e.g.
// after it failed, and frees its slot.
func (p *Pool[T]) Discard(res T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalItems--
	p.cond.Signal()
	return p.CloseFunc(res)
}

// Do checks out a resource, runs fn with it and puts it back. The resource
// is discarded when fn returns an error.
func (p *Pool[T]) Do(fn func(T) error) error {
	res, err := p.Get()
	if err != nil {
		return err
	}

	if err := fn(res); err != nil {
		return errors.Join(err, p.Discard(res))
	}
	return p.Put(res)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Total:   p.totalItems,
		Idle:    len(p.idleItems),
		InUse:   p.totalItems - len(p.idleItems),
		Created: p.created,
		Waits:   p.waits,
	}
}

// Close closes the pool and all idle items. Any subsequent call to Get()
// will fail. Checked out items are closed when they are Put back.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	for _, res := range p.idleItems {
		if e := p.CloseFunc(res); e != nil && err == nil {
			err = e
		}
	}
	p.totalItems -= len(p.idleItems)
	p.idleItems = nil
	p.cond.Broadcast()
	return err
}
