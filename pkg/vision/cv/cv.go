// Package cv 提供基于 OpenCV 的图像配准
//
// PhaseRegistrar 使用相位相关 (Phase Correlation) 估计 needle 在 haystack 中的平移，
// 实现 match.Registrar，作为 match.Matcher 的首选策略:
//
//	m := match.New(match.NewRegistrationStrategy(cv.NewPhaseRegistrar()))
//	c, err := m.Match(needle, haystack, match.DefaultOptions())
//
// 配准结果只是候选位置，最终是否命中由 match 包按像素容差复核。
package cv
