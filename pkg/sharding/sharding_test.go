package sharding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameKeySerializes(t *testing.T) {
	locks := NewStripedMutex(DefaultStripeCount)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("trade:t1")
			counter++
			locks.Unlock("trade:t1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestStripeIsStablePerKey(t *testing.T) {
	locks := NewStripedMutex(8)
	assert.Same(t, locks.stripe("user:alice"), locks.stripe("user:alice"))
}

func TestZeroStripesFallsBackToDefault(t *testing.T) {
	locks := NewStripedMutex(0)
	assert.Len(t, locks.stripes, DefaultStripeCount)
}
