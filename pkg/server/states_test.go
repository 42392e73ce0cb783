package server

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRegistry_IssueConsume(t *testing.T) {
	r := newStateRegistry()

	a := r.issue()
	b := r.issue()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, 2, r.len())

	assert.True(t, r.consume(a))
	assert.False(t, r.consume(a), "a token is valid once")
	assert.False(t, r.consume("unknown"))
	assert.False(t, r.consume(""))
	assert.True(t, r.consume(b))
	assert.Equal(t, 0, r.len())
}

func TestStateRegistry_ConcurrentConsume(t *testing.T) {
	r := newStateRegistry()
	token := r.issue()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.consume(token) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
