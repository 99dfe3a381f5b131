package motion

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/easing"
)

// frameEpsilon 抵消 duration*frameRate 的浮点误差，避免 18.000000000000004 被向上取整为 19
const frameEpsilon = 1e-9

// MaxFrames 单次动画的帧数上限
// 保证 frameOffset 的中间乘积不溢出 int64
const MaxFrames = 1 << 24

// Scheduler 按帧率驱动动画
// 每次 Run 的状态都在栈上，Scheduler 可并发使用，但同一 Dispatcher 的派发顺序由调用方负责
type Scheduler struct {
	Dispatcher Dispatcher
	Clock      Clock
	Observer   Observer
}

// NewScheduler 创建使用系统时钟的调度器
func NewScheduler(d Dispatcher) *Scheduler {
	return &Scheduler{Dispatcher: d, Clock: SystemClock{}}
}

// FrameCount 计算帧数: max(1, ceil(duration * frameRate))，不超过 MaxFrames
func FrameCount(duration time.Duration, frameRate float64) int {
	if duration <= 0 || frameRate <= 0 || math.IsNaN(frameRate) {
		return 1
	}
	f := math.Ceil(duration.Seconds()*frameRate - frameEpsilon)
	switch {
	case f < 1:
		return 1
	case f > MaxFrames:
		return MaxFrames
	}
	return int(f)
}

// frameOffset 第 i 帧相对起点的时间 duration*i/n
// 先除后乘，n <= MaxFrames 时不会溢出
func frameOffset(duration time.Duration, i, n int) time.Duration {
	d, k, m := int64(duration), int64(i), int64(n)
	return time.Duration(d/m*k + d%m*k/m)
}

// Run 执行指针移动计划
// ctx 取消时在帧之间停止并返回 ctx.Err()，已派发的进度不回滚
func (s *Scheduler) Run(ctx context.Context, plan Plan) error {
	dx := float64(plan.End.X - plan.Start.X)
	dy := float64(plan.End.Y - plan.Start.Y)
	target := func(p float64) Point {
		return Point{
			X: int(math.Round(dx * p)),
			Y: int(math.Round(dy * p)),
		}
	}
	dispatch := func(d Point) error {
		return s.Dispatcher.DispatchPointerDelta(d.X, d.Y)
	}
	return s.run(ctx, plan.Duration, plan.FrameRate, plan.Curve, target, dispatch)
}

// RunScroll 执行滚动计划
func (s *Scheduler) RunScroll(ctx context.Context, plan ScrollPlan) error {
	total := float64(plan.Clicks)
	target := func(p float64) Point {
		v := int(math.Round(total * p))
		if plan.Axis == AxisHorizontal {
			return Point{X: v}
		}
		return Point{Y: v}
	}
	dispatch := func(d Point) error {
		if plan.Axis == AxisHorizontal {
			return s.Dispatcher.DispatchScrollDelta(plan.Axis, d.X)
		}
		return s.Dispatcher.DispatchScrollDelta(plan.Axis, d.Y)
	}
	return s.run(ctx, plan.Duration, plan.FrameRate, plan.Curve, target, dispatch)
}

// run 通用帧循环
// target 返回相对起点的绝对累计目标，dispatch 派发与已实现位置的差值
func (s *Scheduler) run(ctx context.Context, duration time.Duration, frameRate float64, curve easing.Curve,
	target func(p float64) Point, dispatch func(delta Point) error) error {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}
	if s.Dispatcher == nil {
		return fmt.Errorf("motion: 未设置 Dispatcher")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	clock := s.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	// 时长为 0：直接派发最终状态
	if duration <= 0 {
		final := target(1)
		if err := dispatch(final); err != nil {
			return fmt.Errorf("motion: 派发失败: %w", err)
		}
		s.observe(Frame{Index: 1, Count: 1, T: 1, Progress: 1, Target: final, Delta: final})
		return nil
	}

	n := FrameCount(duration, frameRate)
	start := clock.Now()
	var realized Point

	for i := 1; i <= n; i++ {
		deadline := start.Add(frameOffset(duration, i, n))
		if err := clock.SleepUntil(ctx, deadline); err != nil {
			return err
		}

		t := float64(i) / float64(n)
		p := curve.Progress(t)
		if i == n {
			// 最后一帧强制到达终点
			p = 1
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: 第 %d/%d 帧 t=%v p=%v", ErrInvalidProgress, i, n, t, p)
		}
		goal := target(p)
		delta := Point{X: goal.X - realized.X, Y: goal.Y - realized.Y}
		if err := dispatch(delta); err != nil {
			return fmt.Errorf("motion: 第 %d/%d 帧派发失败: %w", i, n, err)
		}
		realized = goal
		s.observe(Frame{Index: i, Count: n, T: t, Progress: p, Target: goal, Delta: delta})
	}
	return nil
}

func (s *Scheduler) observe(f Frame) {
	if s.Observer != nil {
		s.Observer(f)
	}
}
