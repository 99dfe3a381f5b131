// Package match 在截图（haystack）中查找模板图像（needle）
//
// 匹配器按顺序尝试多种策略：
//   - RegistrationStrategy: 调用平台配准原语估计单一最佳偏移
//   - BruteForce: 逐像素滑动窗口穷举（始终可用的兜底策略）
//
// 所有结果统一使用左上角为原点、y 轴向下的 haystack 像素坐标。
package match

import "image"

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size 宽高
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area 面积
func (s Size) Area() int {
	return s.Width * s.Height
}

// Region 搜索区域（左上角原点，y 轴向下）
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Candidate 单个匹配结果
type Candidate struct {
	// Origin 匹配区域左上角
	Origin Point `json:"origin"`
	// Size 匹配区域尺寸（等于 needle 尺寸）
	Size Size `json:"size"`
	// Score 相似度 (0-1)
	Score float64 `json:"score"`
}

// Rect 返回匹配区域
func (c Candidate) Rect() image.Rectangle {
	return image.Rect(c.Origin.X, c.Origin.Y, c.Origin.X+c.Size.Width, c.Origin.Y+c.Size.Height)
}

// Center 返回匹配区域中心点
func (c Candidate) Center() Point {
	return Point{X: c.Origin.X + c.Size.Width/2, Y: c.Origin.Y + c.Size.Height/2}
}

// OverlapRatio 交集面积 / 较小矩形面积
// 任一矩形面积为 0 时返回 0
func OverlapRatio(a, b Candidate) float64 {
	minArea := min(a.Size.Area(), b.Size.Area())
	if minArea <= 0 {
		return 0
	}
	inter := a.Rect().Intersect(b.Rect())
	if inter.Empty() {
		return 0
	}
	return float64(inter.Dx()*inter.Dy()) / float64(minArea)
}
