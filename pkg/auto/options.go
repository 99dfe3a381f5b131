package auto

import (
	"github.com/zoeyai/zoeyauto/pkg/motion"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// Option 配置选项函数类型
type Option func(*Options)

// Options 图像定位配置
type Options struct {
	// Confidence 匹配阈值 (0-1)，1 表示精确匹配
	// 0 表示未设置，使用 match.DefaultConfidence；显式零阈值用 WithConfidence(0) 或 match.AnyConfidence
	Confidence float64
	// Region 搜索区域，屏幕坐标 (nil 表示全屏)
	Region *Region
	// Grayscale 匹配前转换为灰度
	Grayscale bool
	// MaxResults 查找全部时的结果上限，0 表示不限
	MaxResults int
}

// Point 表示二维坐标点
type Point = motion.Point

// Region 表示矩形区域
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 定位结果，屏幕坐标
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center 返回矩形中心（整数除法）
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// DefaultOptions 默认配置（近似匹配）
func DefaultOptions() Options {
	return Options{Confidence: match.DefaultConfidence}
}

// ApplyOptions 在 base 上应用配置选项
func ApplyOptions(base Options, opts ...Option) Options {
	o := base
	if base.Region != nil {
		r := *base.Region
		o.Region = &r
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConfidence 设置匹配阈值，c 为 0 时表示接受任何结果
func WithConfidence(c float64) Option {
	return func(o *Options) {
		if c == 0 {
			c = match.AnyConfidence
		}
		o.Confidence = c
	}
}

// WithExact 精确匹配
func WithExact() Option {
	return func(o *Options) {
		o.Confidence = match.ExactConfidence
	}
}

// WithRegion 设置搜索区域
func WithRegion(x, y, width, height int) Option {
	return func(o *Options) {
		o.Region = &Region{X: x, Y: y, Width: width, Height: height}
	}
}

// WithGrayscale 灰度匹配
func WithGrayscale() Option {
	return func(o *Options) {
		o.Grayscale = true
	}
}

// WithMaxResults 设置查找全部时的结果上限
func WithMaxResults(n int) Option {
	return func(o *Options) {
		o.MaxResults = n
	}
}

// matchOptions 转换为匹配器选项，region 为 haystack 坐标
func (o Options) matchOptions(region *match.Region) match.Options {
	return match.Options{
		Confidence: o.Confidence,
		Region:     region,
		Grayscale:  o.Grayscale,
		MaxResults: o.MaxResults,
	}
}
