package parallel

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -2, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWorkerPool(tt.workers)
			defer p.Close()
			assert.Equal(t, tt.want, p.Workers())
			assert.True(t, p.IsRunning())
		})
	}
}

func TestExecuteAll(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int64
	work := make([]func(), 200)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(work)
	assert.Equal(t, int64(200), count.Load())

	p.ExecuteAll(nil)
}

func TestMap(t *testing.T) {
	p := NewWorkerPool(3)
	defer p.Close()

	out := make([]int, 50)
	err := p.Map(len(out), func(i int) error {
		out[i] = i * i
		return nil
	})
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestMapReturnsLowestIndexError(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	errLow := errors.New("low")
	var ran atomic.Int64
	err := p.Map(20, func(i int) error {
		ran.Add(1)
		switch i {
		case 4:
			return errLow
		case 11:
			return errors.New("high")
		}
		return nil
	})
	assert.ErrorIs(t, err, errLow)
	assert.Equal(t, int64(20), ran.Load())
}

func TestMapRecoversPanic(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	err := p.Map(3, func(i int) error {
		if i == 1 {
			panic("corrupt input")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1 panicked: corrupt input")
	assert.True(t, p.IsRunning())
}

func TestCloseDuringMap(t *testing.T) {
	for range 20 {
		p := NewWorkerPool(2)

		var count atomic.Int64
		done := make(chan error)
		go func() {
			done <- p.Map(100, func(int) error {
				count.Add(1)
				return nil
			})
		}()
		p.Close()

		if err := <-done; err != nil {
			require.ErrorIs(t, err, ErrClosed)
			assert.Zero(t, count.Load())
		} else {
			assert.Equal(t, int64(100), count.Load())
		}
	}
}

func TestMapEmpty(t *testing.T) {
	p := NewWorkerPool(1)
	defer p.Close()
	assert.NoError(t, p.Map(0, func(int) error { return errors.New("unreachable") }))
}

func TestClose(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()
	assert.False(t, p.IsRunning())

	called := false
	p.ExecuteAll([]func(){func() { called = true }})
	assert.False(t, called)

	assert.ErrorIs(t, p.Map(1, func(int) error { return nil }), ErrClosed)
}
