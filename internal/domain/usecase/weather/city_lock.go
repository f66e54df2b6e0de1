package weather

import "sync"

// cityLock serializes cache writes per city. Entries are dropped once nobody holds them.
type cityLock struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newCityLock() *cityLock {
	return &cityLock{locks: make(map[string]*refMutex)}
}

// lock blocks until city is free and returns the unlock function
func (c *cityLock) lock(city string) func() {
	c.mu.Lock()
	m, ok := c.locks[city]
	if !ok {
		m = &refMutex{}
		c.locks[city] = m
	}
	m.refs++
	c.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		c.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(c.locks, city)
		}
		c.mu.Unlock()
	}
}
