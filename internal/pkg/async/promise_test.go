//go:build unit
// +build unit

package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromise_SettlesOnce(t *testing.T) {
	p := NewPromise[int]()
	assert.False(t, p.Settled())

	_, err := p.Result()
	assert.ErrorIs(t, err, ErrPending)

	assert.True(t, p.Resolve(1))
	assert.False(t, p.Resolve(2))
	assert.False(t, p.Reject(errors.New("late")))

	v, err := p.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestPromise_Reject(t *testing.T) {
	boom := errors.New("boom")
	p := Rejected[[]byte](boom)

	v, err := p.Await(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}

func TestPromise_RejectNilStillFails(t *testing.T) {
	p := NewPromise[string]()
	require.True(t, p.Reject(nil))

	_, err := p.Result()
	assert.Error(t, err)
}

func TestPromise_ConcurrentSettlers(t *testing.T) {
	p := NewPromise[int]()
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if p.Resolve(n) {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	<-p.Done()
}

func TestPromise_AwaitHonorsContext(t *testing.T) {
	p := NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromise_AwaitPrefersSettledValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := Resolved("ok").Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
