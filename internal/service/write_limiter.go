package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WindowCounter suma un hit en la ventana fija actual de key y devuelve el
// total de esa ventana.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// WriteLimiter corta altas y cambios que superan max por ventana y cliente.
// Un *WriteLimiter nil no limita nada.
type WriteLimiter struct {
	counter WindowCounter
	window  time.Duration
	max     int64
	logger  *zap.Logger
}

func NewWriteLimiter(counter WindowCounter, window time.Duration, max int, logger *zap.Logger) *WriteLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteLimiter{
		counter: counter,
		window:  window,
		max:     int64(max),
		logger:  logger,
	}
}

// Allow reporta si clientKey puede escribir. Si el contador falla la
// escritura se permite y el error queda en el log.
func (l *WriteLimiter) Allow(ctx context.Context, clientKey string) bool {
	if l == nil || l.counter == nil {
		return true
	}
	if clientKey == "" {
		return false
	}
	n, err := l.counter.Incr(ctx, clientKey, l.window)
	if err != nil {
		l.logger.Warn("write limiter unavailable, allowing write", zap.String("client", clientKey), zap.Error(err))
		return true
	}
	return n <= l.max
}

// windowIndex numera las ventanas fijas desde el epoch.
func windowIndex(now time.Time, window time.Duration) int64 {
	return now.UnixNano() / int64(window)
}

type memoryWindow struct {
	index int64
	count int64
}

// MemoryWindowCounter guarda los contadores en el proceso. Las ventanas
// vencidas se descartan en cada Incr.
type MemoryWindowCounter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

func NewMemoryWindowCounter() *MemoryWindowCounter {
	return &MemoryWindowCounter{
		windows: make(map[string]memoryWindow),
		now:     time.Now,
	}
}

func (c *MemoryWindowCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := windowIndex(c.now(), window)
	for k, w := range c.windows {
		if w.index < current {
			delete(c.windows, k)
		}
	}
	w := c.windows[key]
	if w.index != current {
		w = memoryWindow{index: current}
	}
	w.count++
	c.windows[key] = w
	return w.count, nil
}

// Len devuelve cuantos clientes tienen ventana abierta.
func (c *MemoryWindowCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}
