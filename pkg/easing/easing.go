// Package easing 提供缓动曲线
//
// 曲线把归一化时间 t ∈ [0,1] 映射为进度 p，所有命名曲线满足 f(0)=0、f(1)=1，
// 部分曲线 (Elastic、Back) 中途会超出 [0,1]。公式与 easings.net 一致，
// 大部分由 gween 的 Penner 缓动函数实现。
package easing

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Func 缓动函数
type Func func(t float64) float64

// Kind 曲线类别
type Kind int

const (
	// KindNamed 内置命名曲线
	KindNamed Kind = iota
	// KindCustom 调用方提供的函数，不保证端点
	KindCustom
)

// Curve 缓动曲线
// 零值等价于 Linear
type Curve struct {
	kind Kind
	name string
	fn   Func
}

// Kind 返回曲线类别
func (c Curve) Kind() Kind {
	return c.kind
}

// Name 返回曲线名称，自定义曲线为 "custom"
func (c Curve) Name() string {
	if c.fn == nil {
		return "linear"
	}
	return c.name
}

// Progress 计算进度，t 先被限制到 [0,1]
// 命名曲线在端点处精确返回 0 和 1
func (c Curve) Progress(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if c.fn == nil {
		return t
	}
	if c.kind == KindNamed && (t == 0 || t == 1) {
		return t
	}
	return c.fn(t)
}

func (c Curve) String() string {
	return c.Name()
}

// Custom 包装调用方的缓动函数
func Custom(fn Func) Curve {
	if fn == nil {
		return Linear
	}
	return Curve{kind: KindCustom, name: "custom", fn: fn}
}

func named(name string, fn Func) Curve {
	return Curve{kind: KindNamed, name: name, fn: fn}
}

var (
	Linear = named("linear", linear)

	InQuad    = named("easeInQuad", tween(ease.InQuad))
	OutQuad   = named("easeOutQuad", tween(ease.OutQuad))
	InOutQuad = named("easeInOutQuad", tween(ease.InOutQuad))

	InCubic    = named("easeInCubic", tween(ease.InCubic))
	OutCubic   = named("easeOutCubic", tween(ease.OutCubic))
	InOutCubic = named("easeInOutCubic", tween(ease.InOutCubic))

	InQuart    = named("easeInQuart", tween(ease.InQuart))
	OutQuart   = named("easeOutQuart", tween(ease.OutQuart))
	InOutQuart = named("easeInOutQuart", tween(ease.InOutQuart))

	InQuint    = named("easeInQuint", tween(ease.InQuint))
	OutQuint   = named("easeOutQuint", tween(ease.OutQuint))
	InOutQuint = named("easeInOutQuint", tween(ease.InOutQuint))

	InSine    = named("easeInSine", tween(ease.InSine))
	OutSine   = named("easeOutSine", tween(ease.OutSine))
	InOutSine = named("easeInOutSine", tween(ease.InOutSine))

	InExpo    = named("easeInExpo", inExpo)
	OutExpo   = named("easeOutExpo", outExpo)
	InOutExpo = named("easeInOutExpo", inOutExpo)

	InCirc    = named("easeInCirc", tween(ease.InCirc))
	OutCirc   = named("easeOutCirc", tween(ease.OutCirc))
	InOutCirc = named("easeInOutCirc", tween(ease.InOutCirc))

	InElastic    = named("easeInElastic", tween(ease.InElastic))
	OutElastic   = named("easeOutElastic", tween(ease.OutElastic))
	InOutElastic = named("easeInOutElastic", inOutElastic)

	InBack    = named("easeInBack", tween(ease.InBack))
	OutBack   = named("easeOutBack", tween(ease.OutBack))
	InOutBack = named("easeInOutBack", tween(ease.InOutBack))

	InBounce    = named("easeInBounce", tween(ease.InBounce))
	OutBounce   = named("easeOutBounce", tween(ease.OutBounce))
	InOutBounce = named("easeInOutBounce", tween(ease.InOutBounce))
)

// all 按家族顺序排列的命名曲线
var all = []Curve{
	Linear,
	InQuad, OutQuad, InOutQuad,
	InCubic, OutCubic, InOutCubic,
	InQuart, OutQuart, InOutQuart,
	InQuint, OutQuint, InOutQuint,
	InSine, OutSine, InOutSine,
	InExpo, OutExpo, InOutExpo,
	InCirc, OutCirc, InOutCirc,
	InElastic, OutElastic, InOutElastic,
	InBack, OutBack, InOutBack,
	InBounce, OutBounce, InOutBounce,
}

var byKey = func() map[string]Curve {
	m := make(map[string]Curve, len(all))
	for _, c := range all {
		m[normalize(c.name)] = c
	}
	return m
}()

// Named 返回所有命名曲线
func Named() []Curve {
	out := make([]Curve, len(all))
	copy(out, all)
	return out
}

// Names 返回所有命名曲线的名称
func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.name
	}
	return names
}

// ByName 按名称查找曲线
// 支持 "easeInOutQuad"、"ease-in-out-quad"、"in_out_quad"、"InOutQuad" 等写法
func ByName(name string) (Curve, error) {
	if c, ok := byKey[normalize(name)]; ok {
		return c, nil
	}
	return Curve{}, fmt.Errorf("未知的缓动曲线: %q", name)
}

func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	if s != "ease" {
		s = strings.TrimPrefix(s, "ease")
	}
	return s
}
