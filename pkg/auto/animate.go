package auto

import (
	"context"
	"fmt"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/easing"
	"github.com/zoeyai/zoeyauto/pkg/motion"
)

func (a *Automator) requireScheduler() error {
	if a.scheduler == nil {
		return fmt.Errorf("auto: 未配置输入派发器")
	}
	return nil
}

// AnimateMotion 按计划移动指针
func (a *Automator) AnimateMotion(ctx context.Context, plan motion.Plan) error {
	if err := a.requireScheduler(); err != nil {
		return err
	}
	log := a.trace()
	start := time.Now()

	err := a.scheduler.Run(ctx, plan)
	detail := fmt.Sprintf("(%d, %d) -> (%d, %d) %s %v@%.0ffps",
		plan.Start.X, plan.Start.Y, plan.End.X, plan.End.Y, plan.Curve.Name(), plan.Duration, plan.FrameRate)
	if err != nil {
		detail += ": " + err.Error()
	}
	log.LogEvent("MOVE", err == nil, elapsedMs(start), detail)
	return err
}

// AnimateScroll 按计划滚动
func (a *Automator) AnimateScroll(ctx context.Context, plan motion.ScrollPlan) error {
	if err := a.requireScheduler(); err != nil {
		return err
	}
	log := a.trace()
	start := time.Now()

	err := a.scheduler.RunScroll(ctx, plan)
	detail := fmt.Sprintf("%s %d %s %v@%.0ffps", plan.Axis, plan.Clicks, plan.Curve.Name(), plan.Duration, plan.FrameRate)
	if err != nil {
		detail += ": " + err.Error()
	}
	log.LogEvent("SCRL", err == nil, elapsedMs(start), detail)
	return err
}

// MoveTo 从当前指针位置移动到 (x, y)
func (a *Automator) MoveTo(ctx context.Context, x, y int, duration time.Duration, curve easing.Curve) error {
	if a.position == nil {
		return fmt.Errorf("auto: 未配置指针位置读取")
	}
	cx, cy := a.position.Position()
	return a.AnimateMotion(ctx, motion.Plan{
		Start:     Point{X: cx, Y: cy},
		End:       Point{X: x, Y: y},
		Duration:  duration,
		Curve:     curve,
		FrameRate: a.frameRate,
	})
}

// ScrollBy 滚动 clicks 格
func (a *Automator) ScrollBy(ctx context.Context, axis motion.Axis, clicks int, duration time.Duration, curve easing.Curve) error {
	return a.AnimateScroll(ctx, motion.ScrollPlan{
		Axis:      axis,
		Clicks:    clicks,
		Duration:  duration,
		Curve:     curve,
		FrameRate: a.frameRate,
	})
}

// MoveToImage 查找图片并把指针移动到其中心
// 未找到时返回 false
func (a *Automator) MoveToImage(ctx context.Context, path string, duration time.Duration, curve easing.Curve, opts ...Option) (bool, error) {
	p, err := a.LocateCenterOnScreen(path, opts...)
	if err != nil || p == nil {
		return false, err
	}
	if err := a.MoveTo(ctx, p.X, p.Y, duration, curve); err != nil {
		return false, err
	}
	return true, nil
}
