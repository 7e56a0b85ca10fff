// Package notify delivers alerts, suppressing repeats of the same condition
// inside a cooldown window.
package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"timeworth/internal/cache"
	"timeworth/internal/core"
	applog "timeworth/internal/log"
)

type Notifier interface {
	Notify(ctx context.Context, alert core.Alert) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, alert core.Alert) error

func (f NotifierFunc) Notify(ctx context.Context, alert core.Alert) error {
	return f(ctx, alert)
}

// LogNotifier writes alerts to the log; it is the sink when no broker is configured.
type LogNotifier struct {
	logger *applog.StructuredLogger
}

func NewLogNotifier(logger *applog.Logger) *LogNotifier {
	return &LogNotifier{logger: applog.NewStructuredLogger(logger.WithComponent(applog.ComponentNotify))}
}

func (n *LogNotifier) Notify(ctx context.Context, alert core.Alert) error {
	n.logger.LogAlert(ctx, string(alert.Kind), alert.SubjectID, alert.DedupKey(), alert.Percentage)
	return nil
}

// Cooldown forwards an alert only if no alert with the same DedupKey was
// delivered within the TTL. Deliveries are serialized so concurrent callers
// cannot both send the same condition.
type Cooldown struct {
	mu         sync.Mutex
	next       Notifier
	seen       *cache.LRUCache[time.Time]
	logger     *applog.Logger
	suppressed int64
}

// NewCooldown wraps next. Up to maxKeys conditions are remembered.
func NewCooldown(next Notifier, ttl time.Duration, maxKeys int, logger *applog.Logger) *Cooldown {
	return &Cooldown{
		next:   next,
		seen:   cache.NewLRUCache[time.Time](maxKeys, ttl),
		logger: logger.WithComponent(applog.ComponentNotify),
	}
}

func (c *Cooldown) Notify(ctx context.Context, alert core.Alert) error {
	key := alert.DedupKey()

	c.mu.Lock()
	defer c.mu.Unlock()
	if at, ok := c.seen.Get(key); ok {
		atomic.AddInt64(&c.suppressed, 1)
		c.logger.DebugContext(ctx, "Alert suppressed by cooldown",
			applog.FieldDedupKey, key,
			"last_sent", at)
		return nil
	}

	if err := c.next.Notify(ctx, alert); err != nil {
		return err
	}
	c.seen.Set(key, time.Now())
	return nil
}

// Suppressed returns how many alerts were dropped as repeats.
func (c *Cooldown) Suppressed() int64 {
	return atomic.LoadInt64(&c.suppressed)
}

// Cache exposes the key store so a cache.Manager can sweep it.
func (c *Cooldown) Cache() cache.Cleaner {
	return c.seen
}
