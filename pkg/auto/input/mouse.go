// Package input 基于 robotgo 的合成输入
package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/zoeyauto/pkg/motion"
)

// Mouse 实现 motion.Dispatcher 与 auto.PositionReader
// 滚动格数的符号与 robotgo 一致：垂直方向正数向上，水平方向正数向右
type Mouse struct{}

// New 创建鼠标输入
func New() *Mouse {
	return &Mouse{}
}

// DispatchPointerDelta 相对移动指针
func (m *Mouse) DispatchPointerDelta(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	robotgo.MoveRelative(dx, dy)
	return nil
}

// DispatchScrollDelta 滚动 clicks 格
func (m *Mouse) DispatchScrollDelta(axis motion.Axis, clicks int) error {
	if clicks == 0 {
		return nil
	}
	switch axis {
	case motion.AxisHorizontal:
		robotgo.Scroll(clicks, 0)
	case motion.AxisVertical:
		robotgo.Scroll(0, clicks)
	default:
		return fmt.Errorf("未知的滚动方向: %v", axis)
	}
	return nil
}

// Position 获取鼠标位置
func (m *Mouse) Position() (x, y int) {
	return robotgo.Location()
}

// Click 在当前位置点击
// button: left / right / center
func (m *Mouse) Click(button string, double bool) error {
	switch button {
	case "", "left":
		button = "left"
	case "right", "center":
	default:
		return fmt.Errorf("不支持的鼠标按键: %s", button)
	}
	robotgo.Click(button, double)
	return nil
}
