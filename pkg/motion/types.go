// Package motion 将缓动曲线转换为按帧派发的离散增量
//
// 每一帧先计算绝对累计目标，再派发与上一帧已实现位置的差值，
// 所以派发增量之和恒等于请求的总量，不会因取整产生漂移。
package motion

import (
	"errors"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/easing"
)

// ErrInvalidFrameRate 帧率必须为正数
var ErrInvalidFrameRate = errors.New("motion: 帧率必须大于 0")

// ErrInvalidProgress 曲线返回了 NaN 或 Inf
var ErrInvalidProgress = errors.New("motion: 缓动进度不是有限值")

// DefaultFrameRate 默认帧率
const DefaultFrameRate = 60

// Point 屏幕坐标（左上角为原点，y 轴向下）
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Axis 滚动方向
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Plan 指针移动计划
type Plan struct {
	Start     Point
	End       Point
	Duration  time.Duration
	Curve     easing.Curve
	FrameRate float64
}

// ScrollPlan 滚动计划
// Clicks 为带符号的总滚动格数
type ScrollPlan struct {
	Axis      Axis
	Clicks    int
	Duration  time.Duration
	Curve     easing.Curve
	FrameRate float64
}

// Frame 单帧采样
// Target 为相对起点的累计目标，滚动时 Target/Delta 只使用对应轴的分量
type Frame struct {
	Index    int
	Count    int
	T        float64
	Progress float64
	Target   Point
	Delta    Point
}

// Dispatcher 合成输入原语
type Dispatcher interface {
	DispatchPointerDelta(dx, dy int) error
	DispatchScrollDelta(axis Axis, clicks int) error
}

// Observer 接收每一帧的采样，用于追踪和测试
type Observer func(Frame)
