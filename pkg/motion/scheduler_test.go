package motion

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/easing"
)

// recorder 记录所有派发
type recorder struct {
	pointer []Point
	scroll  []int
	axes    []Axis
	failAt  int
}

func (r *recorder) DispatchPointerDelta(dx, dy int) error {
	if r.failAt > 0 && len(r.pointer)+1 == r.failAt {
		return errors.New("input unavailable")
	}
	r.pointer = append(r.pointer, Point{X: dx, Y: dy})
	return nil
}

func (r *recorder) DispatchScrollDelta(axis Axis, clicks int) error {
	r.axes = append(r.axes, axis)
	r.scroll = append(r.scroll, clicks)
	return nil
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler() (*Scheduler, *recorder, *ManualClock) {
	r := &recorder{}
	c := NewManualClock(epoch)
	return &Scheduler{Dispatcher: r, Clock: c}, r, c
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		d    time.Duration
		fr   float64
		want int
	}{
		{time.Second, 10, 10},
		{300 * time.Millisecond, 60, 18},
		{time.Second / 3, 60, 20},
		{10 * time.Millisecond, 60, 1},
		{0, 60, 1},
		{1500 * time.Millisecond, 24, 36},
	}
	for _, tc := range tests {
		if got := FrameCount(tc.d, tc.fr); got != tc.want {
			t.Errorf("FrameCount(%v, %v) = %d, 期望 %d", tc.d, tc.fr, got, tc.want)
		}
	}
}

func TestLinearMotionTenFrames(t *testing.T) {
	s, r, _ := newTestScheduler()
	plan := Plan{
		Start:     Point{0, 0},
		End:       Point{100, 0},
		Duration:  time.Second,
		Curve:     easing.Linear,
		FrameRate: 10,
	}
	if err := s.Run(context.Background(), plan); err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if len(r.pointer) != 10 {
		t.Fatalf("应派发 10 次, 实际 %d", len(r.pointer))
	}
	x := 0
	for k, d := range r.pointer {
		x += d.X
		if x != 10*(k+1) || d.Y != 0 {
			t.Errorf("第 %d 帧后 x=%d, 期望 %d", k+1, x, 10*(k+1))
		}
	}
}

func TestZeroDrift(t *testing.T) {
	curves := easing.Named()
	curves = append(curves, easing.Custom(func(x float64) float64 { return x * 0.7 }))
	rates := []float64{1, 7, 24, 60, 144}

	for _, c := range curves {
		for _, fr := range rates {
			s, r, _ := newTestScheduler()
			plan := Plan{
				Start:     Point{37, 900},
				End:       Point{-413, 11},
				Duration:  730 * time.Millisecond,
				Curve:     c,
				FrameRate: fr,
			}
			if err := s.Run(context.Background(), plan); err != nil {
				t.Fatalf("%s@%v: %v", c.Name(), fr, err)
			}
			var sum Point
			for _, d := range r.pointer {
				sum.X += d.X
				sum.Y += d.Y
			}
			if sum.X != -450 || sum.Y != -889 {
				t.Errorf("%s@%v 累计 %+v, 期望 {-450 -889}", c.Name(), fr, sum)
			}
			if len(r.pointer) != FrameCount(plan.Duration, fr) {
				t.Errorf("%s@%v 帧数错误: %d", c.Name(), fr, len(r.pointer))
			}
		}
	}
}

func TestScrollZeroDrift(t *testing.T) {
	for _, c := range easing.Named() {
		s, r, _ := newTestScheduler()
		plan := ScrollPlan{Axis: AxisVertical, Clicks: -17, Duration: 400 * time.Millisecond, Curve: c, FrameRate: 30}
		if err := s.RunScroll(context.Background(), plan); err != nil {
			t.Fatal(err)
		}
		sum := 0
		for _, d := range r.scroll {
			sum += d
		}
		if sum != -17 {
			t.Errorf("%s 累计滚动 %d, 期望 -17", c.Name(), sum)
		}
	}
}

func TestScrollHorizontalAxis(t *testing.T) {
	s, r, _ := newTestScheduler()
	var frames []Frame
	s.Observer = func(f Frame) { frames = append(frames, f) }

	plan := ScrollPlan{Axis: AxisHorizontal, Clicks: 6, Duration: 300 * time.Millisecond, Curve: easing.Linear, FrameRate: 10}
	if err := s.RunScroll(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	want := []int{2, 2, 2}
	if len(r.scroll) != len(want) {
		t.Fatalf("派发次数错误: %v", r.scroll)
	}
	for i := range want {
		if r.scroll[i] != want[i] || r.axes[i] != AxisHorizontal {
			t.Errorf("第 %d 帧: %d %v", i+1, r.scroll[i], r.axes[i])
		}
	}
	if frames[2].Target.X != 6 || frames[2].Target.Y != 0 {
		t.Errorf("水平滚动目标应记录在 X 分量: %+v", frames[2].Target)
	}
}

func TestNonPositiveDuration(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		s, r, c := newTestScheduler()
		plan := Plan{Start: Point{10, 10}, End: Point{50, -20}, Duration: d, Curve: easing.InOutBack, FrameRate: 60}
		if err := s.Run(context.Background(), plan); err != nil {
			t.Fatal(err)
		}
		if len(r.pointer) != 1 || r.pointer[0] != (Point{40, -30}) {
			t.Errorf("duration=%v 应一次派发完整增量, 实际 %v", d, r.pointer)
		}
		if len(c.Deadlines()) != 0 {
			t.Errorf("duration=%v 不应休眠", d)
		}
	}
}

func TestInvalidFrameRate(t *testing.T) {
	for _, fr := range []float64{0, -5} {
		s, r, _ := newTestScheduler()
		err := s.Run(context.Background(), Plan{End: Point{10, 0}, Duration: time.Second, FrameRate: fr})
		if !errors.Is(err, ErrInvalidFrameRate) {
			t.Errorf("帧率 %v 应返回 ErrInvalidFrameRate, 实际 %v", fr, err)
		}
		if len(r.pointer) != 0 {
			t.Errorf("帧率无效时不应派发")
		}
	}
}

func TestFrameDeadlines(t *testing.T) {
	s, _, c := newTestScheduler()
	var frames []Frame
	s.Observer = func(f Frame) { frames = append(frames, f) }

	plan := Plan{End: Point{4, 4}, Duration: 100 * time.Millisecond, Curve: easing.InQuad, FrameRate: 40}
	if err := s.Run(context.Background(), plan); err != nil {
		t.Fatal(err)
	}

	deadlines := c.Deadlines()
	if len(deadlines) != 4 || len(frames) != 4 {
		t.Fatalf("应有 4 帧, deadlines=%d frames=%d", len(deadlines), len(frames))
	}
	for i, d := range deadlines {
		want := epoch.Add(time.Duration(i+1) * 25 * time.Millisecond)
		if !d.Equal(want) {
			t.Errorf("第 %d 帧 deadline %v, 期望 %v", i+1, d, want)
		}
	}
	for i, f := range frames {
		if f.Index != i+1 || f.Count != 4 || f.T != float64(i+1)/4 {
			t.Errorf("帧采样错误: %+v", f)
		}
	}
	if frames[1].Progress != 0.25 {
		t.Errorf("InQuad(0.5) 应为 0.25, 实际 %v", frames[1].Progress)
	}
	if frames[3].Progress != 1 || frames[3].Target != (Point{4, 4}) {
		t.Errorf("最后一帧应到达终点: %+v", frames[3])
	}
}

func TestLastFrameForcesEnd(t *testing.T) {
	s, r, _ := newTestScheduler()
	// 自定义曲线在 t=1 时不为 1
	plan := Plan{End: Point{100, 0}, Duration: 200 * time.Millisecond, FrameRate: 10,
		Curve: easing.Custom(func(x float64) float64 { return x / 2 })}
	if err := s.Run(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	if len(r.pointer) != 2 || r.pointer[0].X != 25 || r.pointer[1].X != 75 {
		t.Errorf("派发序列错误: %v", r.pointer)
	}
}

// cancelClock 在第 n 次休眠时取消 ctx
type cancelClock struct {
	*ManualClock
	cancel context.CancelFunc
	n      int
	calls  int
}

func (c *cancelClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	c.calls++
	if c.calls == c.n {
		c.cancel()
	}
	return c.ManualClock.SleepUntil(ctx, deadline)
}

func TestCancellationKeepsProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &recorder{}
	s := &Scheduler{Dispatcher: r, Clock: &cancelClock{ManualClock: NewManualClock(epoch), cancel: cancel, n: 4}}
	plan := Plan{End: Point{100, 0}, Duration: time.Second, Curve: easing.Linear, FrameRate: 10}

	err := s.Run(ctx, plan)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("应返回 context.Canceled, 实际 %v", err)
	}
	if len(r.pointer) != 3 {
		t.Fatalf("取消前应完成 3 帧, 实际 %d", len(r.pointer))
	}
	x := 0
	for _, d := range r.pointer {
		x += d.X
		if d.X < 0 {
			t.Error("取消后不应回滚")
		}
	}
	if x != 30 {
		t.Errorf("已派发进度应保留在 30, 实际 %d", x)
	}
}

func TestDispatchErrorAborts(t *testing.T) {
	s, r, _ := newTestScheduler()
	r.failAt = 3
	plan := Plan{End: Point{100, 0}, Duration: time.Second, Curve: easing.Linear, FrameRate: 10}

	err := s.Run(context.Background(), plan)
	if err == nil {
		t.Fatal("派发失败应返回错误")
	}
	if len(r.pointer) != 2 {
		t.Errorf("失败后应停止派发, 实际已派发 %d 次", len(r.pointer))
	}
}

func TestFrameOffsetLongPlans(t *testing.T) {
	// 3 小时 @1000fps：duration*i 会超出 int64
	d := 3 * time.Hour
	n := FrameCount(d, 1000)
	if n != 10_800_000 {
		t.Fatalf("帧数应为 10800000, 实际 %d", n)
	}

	prev := time.Duration(0)
	for _, i := range []int{1, 2, 854015, 854016, n / 2, n - 1, n} {
		off := frameOffset(d, i, n)
		want := time.Duration(float64(d) * float64(i) / float64(n))
		if diff := off - want; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("第 %d 帧偏移 %v, 期望约 %v", i, off, want)
		}
		if off <= prev {
			t.Errorf("第 %d 帧偏移 %v 不大于前一帧 %v", i, off, prev)
		}
		prev = off
	}
	if got := frameOffset(d, n, n); got != d {
		t.Errorf("最后一帧应在 %v, 实际 %v", d, got)
	}
}

func TestFrameCountBounds(t *testing.T) {
	if got := FrameCount(time.Hour, 1e12); got != MaxFrames {
		t.Errorf("超大帧率应被限制为 %d, 实际 %d", MaxFrames, got)
	}
	if got := FrameCount(time.Second, math.Inf(1)); got != MaxFrames {
		t.Errorf("Inf 帧率应被限制为 %d, 实际 %d", MaxFrames, got)
	}
	if got := FrameCount(time.Second, math.NaN()); got != 1 {
		t.Errorf("NaN 帧率应返回 1, 实际 %d", got)
	}

	// 帧数封顶时偏移仍不溢出
	d := 1000 * time.Hour
	if got := frameOffset(d, MaxFrames, MaxFrames); got != d {
		t.Errorf("封顶后最后一帧应在 %v, 实际 %v", d, got)
	}
	if a, b := frameOffset(d, MaxFrames-2, MaxFrames), frameOffset(d, MaxFrames-1, MaxFrames); a <= 0 || b <= a || b >= d {
		t.Errorf("封顶后偏移不单调: %v %v", a, b)
	}
}

func TestNonFiniteProgressRejected(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s, r, _ := newTestScheduler()
		plan := Plan{End: Point{100, 50}, Duration: 500 * time.Millisecond, FrameRate: 10,
			Curve: easing.Custom(func(x float64) float64 {
				if x > 0.45 {
					return bad
				}
				return x
			})}
		err := s.Run(context.Background(), plan)
		if !errors.Is(err, ErrInvalidProgress) {
			t.Fatalf("p=%v 应返回 ErrInvalidProgress, 实际 %v", bad, err)
		}
		if len(r.pointer) != 2 {
			t.Errorf("p=%v 前两帧有效，应派发 2 次, 实际 %d", bad, len(r.pointer))
		}
		for _, d := range r.pointer {
			if d.X > 100 || d.Y > 50 {
				t.Errorf("p=%v 派发了异常增量 %+v", bad, d)
			}
		}
	}
}

func TestSystemClockHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SystemClock{}.SleepUntil(ctx, time.Now().Add(time.Hour))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("已取消的 ctx 应立即返回, 实际 %v", err)
	}
}
