package motion

import (
	"context"
	"sync"
	"time"
)

// Clock 调度器使用的时钟
type Clock interface {
	Now() time.Time
	// SleepUntil 休眠到 deadline，ctx 取消时提前返回 ctx.Err()
	SleepUntil(ctx context.Context, deadline time.Time) error
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ManualClock 不真正休眠的时钟，SleepUntil 直接把时间推进到 deadline
// 用于测试和演练模式
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Time
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, deadline)
	if deadline.After(c.now) {
		c.now = deadline
	}
	return nil
}

// Deadlines 返回所有 SleepUntil 收到的 deadline
func (c *ManualClock) Deadlines() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Time, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
