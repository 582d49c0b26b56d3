package xredis

import (
	"context"
	"sync"
	"time"
)

// MockClient is an in-memory Client. Keys expire lazily when they are read.
type MockClient struct {
	mutex  sync.Mutex
	values map[string]mockValue
	Now    func() time.Time
}

type mockValue struct {
	value     string
	counter   int64
	expiredAt time.Time
}

func NewMockClient() *MockClient {
	return &MockClient{values: make(map[string]mockValue), Now: time.Now}
}

func (c *MockClient) load(key string) (mockValue, bool) {
	v, ok := c.values[key]
	if ok && !v.expiredAt.IsZero() && !c.Now().Before(v.expiredAt) {
		delete(c.values, key)
		return mockValue{}, false
	}

	return v, ok
}

func (c *MockClient) expiration(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}

	return c.Now().Add(ttl)
}

func (c *MockClient) Exist(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.load(key)
	return ok, nil
}

func (c *MockClient) Del(ctx context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, key := range keys {
		delete(c.values, key)
	}

	return nil
}

func (c *MockClient) Get(ctx context.Context, key string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	v, ok := c.load(key)
	if !ok {
		return "", ErrNotFound
	}

	return v.value, nil
}

func (c *MockClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values[key] = mockValue{value: value, expiredAt: c.expiration(ttl)}
	return nil
}

func (c *MockClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.load(key); ok {
		return false, nil
	}

	c.values[key] = mockValue{value: value, expiredAt: c.expiration(ttl)}
	return true, nil
}

func (c *MockClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	v, ok := c.load(key)
	if !ok {
		v = mockValue{expiredAt: c.expiration(ttl)}
	}

	v.counter++
	c.values[key] = v
	return v.counter, nil
}
