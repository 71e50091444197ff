package pooler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResource struct {
	id int64
}

func newCountingPool(t *testing.T, maxItems int, maxIdle int) (*Pool[mockResource], *int64, *int64) {
	t.Helper()

	var created, closed int64
	pool, err := NewPool(Config[mockResource]{
		MaxItems: maxItems,
		MaxIdle:  maxIdle,
		NewFunc: func() (mockResource, error) {
			return mockResource{id: atomic.AddInt64(&created, 1)}, nil
		},
		CloseFunc: func(r mockResource) error {
			atomic.AddInt64(&closed, 1)
			return nil
		},
	})
	require.NoError(t, err)

	return pool, &created, &closed
}

func TestNewPool(t *testing.T) {
	newFunc := func() (mockResource, error) { return mockResource{}, nil }
	closeFunc := func(mockResource) error { return nil }

	tests := []struct {
		name   string
		config Config[mockResource]
	}{
		{"zero max items", Config[mockResource]{MaxItems: 0, NewFunc: newFunc, CloseFunc: closeFunc}},
		{"negative idle", Config[mockResource]{MaxItems: 1, MaxIdle: -1, NewFunc: newFunc, CloseFunc: closeFunc}},
		{"idle above max", Config[mockResource]{MaxItems: 1, MaxIdle: 2, NewFunc: newFunc, CloseFunc: closeFunc}},
		{"missing new func", Config[mockResource]{MaxItems: 1, CloseFunc: closeFunc}},
		{"missing close func", Config[mockResource]{MaxItems: 1, NewFunc: newFunc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPool(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestPool_CreateAndClose(t *testing.T) {
	pool, _, _ := newCountingPool(t, 3, 2)

	res1, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, res1.id)

	err = pool.Close()
	assert.NoError(t, err)

	res2, err := pool.Get()
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.Zero(t, res2.id)
}

func TestPool_MaxIdle(t *testing.T) {
	pool, created, closed := newCountingPool(t, 5, 2)

	r1, err := pool.Get()
	assert.NoError(t, err)
	r2, err := pool.Get()
	assert.NoError(t, err)
	r3, err := pool.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, r3.id)

	assert.NoError(t, pool.Put(r1))
	assert.NoError(t, pool.Put(r2))
	assert.NoError(t, pool.Put(r3))

	assert.EqualValues(t, 3, *created)
	assert.EqualValues(t, 1, *closed)
	assert.Equal(t, Stats{Total: 2, Idle: 2, InUse: 0, Created: 3}, pool.Stats())

	assert.NoError(t, pool.Close())
	assert.EqualValues(t, 3, *closed)
	assert.Equal(t, 0, pool.Stats().Total)
}

func TestPool_BlockWhenFull(t *testing.T) {
	pool, created, _ := newCountingPool(t, 2, 1)
	defer pool.Close()

	r1, err := pool.Get()
	assert.NoError(t, err)
	_, err = pool.Get()
	assert.NoError(t, err)

	ch := make(chan struct{})
	go func() {
		r3, getErr := pool.Get()
		assert.NoError(t, getErr)
		assert.NotZero(t, r3.id)
		close(ch)
	}()

	assert.EqualValues(t, 2, atomic.LoadInt64(created))
	_ = pool.Put(r1)
	<-ch
}

func TestPool_Do(t *testing.T) {
	t.Run("ReturnsResource", func(t *testing.T) {
		pool, created, _ := newCountingPool(t, 2, 2)
		defer pool.Close()

		for i := 0; i < 5; i++ {
			err := pool.Do(func(r mockResource) error {
				assert.EqualValues(t, 1, r.id)
				return nil
			})
			assert.NoError(t, err)
		}

		assert.EqualValues(t, 1, *created)
		assert.Equal(t, Stats{Total: 1, Idle: 1, InUse: 0, Created: 1}, pool.Stats())
	})

	t.Run("DiscardsOnError", func(t *testing.T) {
		pool, created, closed := newCountingPool(t, 2, 2)
		defer pool.Close()

		errBoom := errors.New("boom")
		err := pool.Do(func(mockResource) error { return errBoom })
		assert.ErrorIs(t, err, errBoom)
		assert.EqualValues(t, 1, *closed)

		err = pool.Do(func(r mockResource) error {
			assert.EqualValues(t, 2, r.id)
			return nil
		})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, *created)
	})

	t.Run("Closed", func(t *testing.T) {
		pool, _, _ := newCountingPool(t, 1, 1)
		require.NoError(t, pool.Close())

		err := pool.Do(func(mockResource) error { return nil })
		assert.ErrorIs(t, err, ErrPoolClosed)
	})

	t.Run("Concurrent", func(t *testing.T) {
		pool, created, _ := newCountingPool(t, 3, 3)
		defer pool.Close()

		var inUse, peak int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := pool.Do(func(mockResource) error {
					n := atomic.AddInt64(&inUse, 1)
					for {
						p := atomic.LoadInt64(&peak)
						if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
							break
						}
					}
					atomic.AddInt64(&inUse, -1)
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(3))
		assert.LessOrEqual(t, atomic.LoadInt64(created), int64(3))
		assert.Equal(t, 0, pool.Stats().InUse)
	})
}
