package encoder

import (
	"context"
	"sync"
)

// Cached memoizes embeddings per input text for the lifetime of the process.
// The underlying encoder must be deterministic, so caching cannot change
// observable results; it only removes repeated calls for identical text.
type Cached struct {
	inner Encoder

	mu      sync.RWMutex
	vectors map[string][]float32
}

func NewCached(inner Encoder) *Cached {
	return &Cached{inner: inner, vectors: map[string][]float32{}}
}

func (c *Cached) Encode(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vector, ok := c.vectors[text]
	c.mu.RUnlock()
	if ok {
		return vector, nil
	}

	vector, err := c.inner.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.vectors[text] = vector
	c.mu.Unlock()
	return vector, nil
}

// Len reports the number of distinct texts cached so far.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
