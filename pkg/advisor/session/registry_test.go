package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-advisor-be/pkg/advisor"
)

func TestRegistrySecondAcquireIsBusy(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Acquire("s1"))
	assert.ErrorIs(t, r.Acquire("s1"), advisor.ErrSessionBusy)

	r.Release("s1")
	assert.NoError(t, r.Acquire("s1"), "released session can be re-acquired")
}

func TestRegistryDifferentSessionsDoNotContend(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Acquire("s1"))
	assert.NoError(t, r.Acquire("s2"))
}

func TestRegistryReleaseUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Release("never-acquired")

	assert.NoError(t, r.Acquire("never-acquired"))
}

func TestRegistryConcurrentAcquireAdmitsExactlyOne(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Acquire("contested"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
