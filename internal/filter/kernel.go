package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for the
// given standard deviation. The kernel spans 3 standard deviations on
// each side, covering 99.7% of the distribution. A sigma <= 0 yields
// the identity kernel [1.0].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}
	return kernel
}

// kernelCache caches computed kernels keyed by sigma quantized to
// 0.01 precision.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = &kernelCache{
	cache:  make(map[int][]float32),
	maxLen: 64,
}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(sigma * 100)

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(sigma)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Simple half-clear eviction; kernel sets in practice are tiny.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel returns a cached kernel for sigma. Shadows
// reuse a handful of blur deviations across a document, so kernels
// are almost always a cache hit.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}
