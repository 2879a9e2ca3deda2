package connpool

import (
	"github.com/sirupsen/logrus"
)

// DefaultMapThreshold is the pool size above which New tries a virtual
// memory mapping before falling back to the heap.
const DefaultMapThreshold = 32 * 1024

var defaultLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}()

// DefaultLogger returns the logger used by pools created without WithLogger.
func DefaultLogger() *logrus.Logger { return defaultLogger }

type config struct {
	threshold int
	large     Allocator
	heap      Allocator
	log       logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		threshold: DefaultMapThreshold,
		large:     mappedAllocator(),
		heap:      heapAllocator{},
		log:       defaultLogger,
	}
}

// Option configures New.
type Option func(c *config)

// WithMapThreshold sets the size above which the large allocator is tried.
// Negative values disable the large allocator.
func WithMapThreshold(n int) Option {
	return func(c *config) {
		c.threshold = n
	}
}

// WithAllocator replaces the allocator tried for pools above the map
// threshold. A nil allocator sends every pool to the heap.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		c.large = a
	}
}

// WithHeapAllocator replaces the allocator used for small pools and as the
// fallback for large ones.
func WithHeapAllocator(a Allocator) Option {
	return func(c *config) {
		if a != nil {
			c.heap = a
		}
	}
}

// WithLogger sets the logger pools report backing decisions to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
