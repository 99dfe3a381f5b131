package easing

import (
	"math"

	"github.com/tanema/gween/ease"
)

// tween 把 gween 的 (t, b, c, d) 缓动函数转换为 [0,1] → 进度
// gween 以 float32 计算，精度约 1e-7
func tween(f ease.TweenFunc) Func {
	return func(t float64) float64 {
		return float64(f(float32(t), 0, 1, 1))
	}
}

func linear(t float64) float64 { return t }

// gween 的 Expo 带有 ±0.001 的修正项，端点不精确，这里使用标准公式

func inExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func outExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func inOutExpo(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}

// elasticC5 in-out 的周期常数
// gween 的 InOutElastic 沿用 in/out 的周期 (2π/3)，与 2π/4.5 不同
const elasticC5 = 2 * math.Pi / 4.5

func inOutElastic(t float64) float64 {
	switch {
	case t == 0 || t == 1:
		return t
	case t < 0.5:
		return -(math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*elasticC5)) / 2
	default:
		return (math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*elasticC5))/2 + 1
	}
}
