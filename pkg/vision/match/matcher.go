package match

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zoeyai/zoeyauto/internal/logger"
	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// ErrInvalidImage needle 或 haystack 为空
var ErrInvalidImage = errors.New("match: 无效的图像")

// Strategy 匹配策略
// Best 只在找到分数不低于阈值的候选时返回非 nil
type Strategy interface {
	Name() string
	Best(needle, haystack *raster.Image, opts Options) (*Candidate, error)
}

// Matcher 按顺序尝试策略，直到某个策略给出可接受的候选
// Matcher 本身无可变状态，可并发使用
type Matcher struct {
	strategies []Strategy
	brute      *BruteForce
}

// New 创建匹配器
// 若 strategies 中没有 BruteForce，会自动追加一个作为兜底
func New(strategies ...Strategy) *Matcher {
	m := &Matcher{}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if b, ok := s.(*BruteForce); ok && m.brute == nil {
			m.brute = b
		}
		m.strategies = append(m.strategies, s)
	}
	if m.brute == nil {
		m.brute = NewBruteForce()
		m.strategies = append(m.strategies, m.brute)
	}
	return m
}

// Strategies 返回策略名称（按尝试顺序）
func (m *Matcher) Strategies() []string {
	names := make([]string, len(m.strategies))
	for i, s := range m.strategies {
		names[i] = s.Name()
	}
	return names
}

// Match 查找最佳匹配
// 未找到时返回 nil, nil；图像无效时返回 ErrInvalidImage
func (m *Matcher) Match(needle, haystack *raster.Image, opts Options) (*Candidate, error) {
	needle, haystack, err := prepare(needle, haystack, opts)
	if err != nil {
		return nil, err
	}

	for _, s := range m.strategies {
		c, err := s.Best(needle, haystack, opts)
		if err != nil {
			// 单个策略失败不影响后续策略
			logger.Debug("匹配策略 %s 失败: %v", s.Name(), err)
			continue
		}
		if c != nil && c.Score >= opts.threshold() {
			logger.Debug("匹配策略 %s 命中: (%d, %d) score=%.4f", s.Name(), c.Origin.X, c.Origin.Y, c.Score)
			return c, nil
		}
	}
	return nil, nil
}

// MatchAll 查找所有互不重叠的匹配
// 任意两个结果的 OverlapRatio 都小于 SuppressOverlap
func (m *Matcher) MatchAll(needle, haystack *raster.Image, opts Options) ([]Candidate, error) {
	needle, haystack, err := prepare(needle, haystack, opts)
	if err != nil {
		return nil, err
	}

	cands, err := m.brute.Candidates(needle, haystack, opts)
	if err != nil {
		return nil, err
	}
	results := Suppress(cands, SuppressOverlap)
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

// Suppress 贪心非极大值抑制
// 按分数从高到低（同分按原顺序）依次接受候选，丢弃与已接受候选重叠率 >= overlap 的候选
func Suppress(cands []Candidate, overlap float64) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var kept []Candidate
	for _, c := range sorted {
		suppressed := false
		for _, k := range kept {
			if OverlapRatio(c, k) >= overlap {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

func validate(needle, haystack *raster.Image) error {
	if needle.Empty() {
		return fmt.Errorf("%w: needle 为空", ErrInvalidImage)
	}
	if haystack.Empty() {
		return fmt.Errorf("%w: haystack 为空", ErrInvalidImage)
	}
	return nil
}

// prepare 校验图像并按需转换为灰度
func prepare(needle, haystack *raster.Image, opts Options) (*raster.Image, *raster.Image, error) {
	if err := validate(needle, haystack); err != nil {
		return nil, nil, err
	}
	if opts.Grayscale {
		return needle.Gray(), haystack.Gray(), nil
	}
	return needle, haystack, nil
}
