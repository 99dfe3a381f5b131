package match

import (
	"image"
	"math"

	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// Axes 配准结果使用的坐标轴约定
type Axes int

const (
	// AxesTopLeft 左上角为原点，y 轴向下（与 haystack 像素坐标一致）
	AxesTopLeft Axes = iota
	// AxesBottomLeft 左下角为原点，y 轴向上；(DX, DY) 为 needle 左下角
	AxesBottomLeft
)

// Alignment 配准原语给出的单一最佳偏移
type Alignment struct {
	DX, DY float64
	Axes   Axes
	// Response 配准原语自身的响应值，仅供日志参考
	Response float64
}

// Registrar 平台配准原语
// ok 为 false 表示未收敛，不视为错误
type Registrar interface {
	Register(needle, haystack *raster.Image) (a Alignment, ok bool, err error)
}

// TopLeft 将配准偏移换算为左上角原点的整数像素坐标
// haystackHeight 与 needleHeight 用于翻转 y 轴
func (a Alignment) TopLeft(haystackHeight, needleHeight int) Point {
	x := a.DX
	y := a.DY
	if a.Axes == AxesBottomLeft {
		y = float64(haystackHeight) - a.DY - float64(needleHeight)
	}
	return Point{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// RegistrationStrategy 快速路径：调用配准原语估计偏移，再按像素容差打分校验
// 只会给出一个候选
type RegistrationStrategy struct {
	Registrar Registrar
}

// NewRegistrationStrategy 创建配准策略
func NewRegistrationStrategy(r Registrar) *RegistrationStrategy {
	return &RegistrationStrategy{Registrar: r}
}

// Name 策略名称
func (s *RegistrationStrategy) Name() string {
	return "registration"
}

// Best 返回配准得到的候选，分数低于阈值或偏移越界时返回 nil
func (s *RegistrationStrategy) Best(needle, haystack *raster.Image, opts Options) (*Candidate, error) {
	if err := validate(needle, haystack); err != nil {
		return nil, err
	}
	if s.Registrar == nil {
		return nil, nil
	}

	sub := haystack
	origin := image.Point{}
	if opts.Region != nil {
		r := opts.Region.Rect().Intersect(haystack.Bounds())
		if r.Empty() {
			return nil, nil
		}
		sub = haystack.Crop(r)
		origin = r.Min
	}
	if needle.Width() > sub.Width() || needle.Height() > sub.Height() {
		return nil, nil
	}

	a, ok, err := s.Registrar.Register(needle, sub)
	if err != nil || !ok {
		return nil, err
	}

	p := a.TopLeft(sub.Height(), needle.Height())
	if p.X < 0 || p.Y < 0 || p.X+needle.Width() > sub.Width() || p.Y+needle.Height() > sub.Height() {
		return nil, nil
	}
	score := Score(needle, sub, p.X, p.Y)
	if score < opts.threshold() {
		return nil, nil
	}
	return &Candidate{
		Origin: Point{X: p.X + origin.X, Y: p.Y + origin.Y},
		Size:   Size{Width: needle.Width(), Height: needle.Height()},
		Score:  score,
	}, nil
}
