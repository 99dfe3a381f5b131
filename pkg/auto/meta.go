package auto

import (
	"math"

	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// CaptureMeta 截图元信息（缩放和偏移量）
// Scale 为截图像素与屏幕逻辑坐标之比，HiDPI 屏幕上通常为 2
type CaptureMeta struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX int
	OffsetY int
}

// IdentityMeta 无缩放、无偏移
func IdentityMeta() CaptureMeta {
	return CaptureMeta{ScaleX: 1, ScaleY: 1}
}

// ScaleCoord 按比例缩放坐标值
func ScaleCoord(value int, scale float64) int {
	if scale <= 0 {
		return value
	}
	return int(math.Round(float64(value) / scale))
}

// AdjustPoint 截图坐标 → 屏幕坐标（反向缩放 + 偏移）
func (m CaptureMeta) AdjustPoint(p match.Point) Point {
	return Point{
		X: ScaleCoord(p.X, m.ScaleX) + m.OffsetX,
		Y: ScaleCoord(p.Y, m.ScaleY) + m.OffsetY,
	}
}

// AdjustCandidate 将匹配结果换算为屏幕矩形
func (m CaptureMeta) AdjustCandidate(c match.Candidate) Rect {
	p := m.AdjustPoint(c.Origin)
	return Rect{
		X:      p.X,
		Y:      p.Y,
		Width:  ScaleCoord(c.Size.Width, m.ScaleX),
		Height: ScaleCoord(c.Size.Height, m.ScaleY),
	}
}
