package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReentrantMutexNestedLock(t *testing.T) {
	var m ReentrantMutex
	m.Lock()
	m.Lock()
	assert.True(t, m.HeldByCurrent())
	m.Unlock()
	assert.True(t, m.HeldByCurrent(), "still held after inner unlock")
	m.Unlock()
	assert.False(t, m.HeldByCurrent())
}

func TestReentrantMutexExcludesOtherGoroutines(t *testing.T) {
	var m ReentrantMutex
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Lock()
				m.Lock()
				counter++
				m.Unlock()
				m.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5000, counter)
}

func TestReentrantMutexUnlockByStrangerPanics(t *testing.T) {
	var m ReentrantMutex
	assert.Panics(t, func() { m.Unlock() })
}
