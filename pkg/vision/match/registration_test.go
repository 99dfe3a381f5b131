package match

import (
	"errors"
	"testing"

	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// fakeRegistrar 返回预设的配准结果，并记录收到的 haystack 尺寸
type fakeRegistrar struct {
	alignment Alignment
	ok        bool
	err       error

	calls      int
	lastWidth  int
	lastHeight int
}

func (f *fakeRegistrar) Register(needle, haystack *raster.Image) (Alignment, bool, error) {
	f.calls++
	f.lastWidth, f.lastHeight = haystack.Width(), haystack.Height()
	return f.alignment, f.ok, f.err
}

// countingStrategy 记录 Best 是否被调用
type countingStrategy struct {
	inner Strategy
	calls int
}

func (c *countingStrategy) Name() string { return "counting" }

func (c *countingStrategy) Best(needle, haystack *raster.Image, opts Options) (*Candidate, error) {
	c.calls++
	return c.inner.Best(needle, haystack, opts)
}

func TestAlignmentTopLeft(t *testing.T) {
	tests := []struct {
		name string
		a    Alignment
		want Point
	}{
		{"左上原点", Alignment{DX: 12, DY: 30, Axes: AxesTopLeft}, Point{X: 12, Y: 30}},
		{"左下原点", Alignment{DX: 12, DY: 30, Axes: AxesBottomLeft}, Point{X: 12, Y: 100 - 30 - 20}},
		{"亚像素取整", Alignment{DX: 11.6, DY: 29.4, Axes: AxesTopLeft}, Point{X: 12, Y: 29}},
		{"左下原点贴底", Alignment{DX: 0, DY: 0, Axes: AxesBottomLeft}, Point{X: 0, Y: 80}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.TopLeft(100, 20); got != tc.want {
				t.Errorf("期望 %+v, 实际 %+v", tc.want, got)
			}
		})
	}
}

func TestRegistrationStrategyBottomLeftAxes(t *testing.T) {
	needle := newNeedle(50, 50)
	haystack := embed(newHaystack(400, 400), needle, Point{X: 120, Y: 80})

	// 左下原点：needle 底边距 haystack 底边 400-80-50 = 270
	reg := &fakeRegistrar{alignment: Alignment{DX: 120, DY: 270, Axes: AxesBottomLeft}, ok: true}
	brute := &countingStrategy{inner: NewBruteForce()}
	m := New(NewRegistrationStrategy(reg), brute)

	c, err := m.Match(needle, haystack, Options{Confidence: 0.9})
	if err != nil || c == nil {
		t.Fatalf("配准策略应命中: %v", err)
	}
	if c.Origin != (Point{X: 120, Y: 80}) || c.Score != 1 {
		t.Errorf("坐标换算错误: %+v", c)
	}
	if brute.calls != 0 {
		t.Error("配准命中后不应调用兜底策略")
	}
}

func TestRegistrationStrategyRegionTranslation(t *testing.T) {
	needle := newNeedle(20, 20)
	haystack := embed(newHaystack(300, 300), needle, Point{X: 210, Y: 160})
	region := &Region{X: 200, Y: 100, Width: 100, Height: 100}

	// 区域内的相对坐标 (10, 60)
	reg := &fakeRegistrar{alignment: Alignment{DX: 10, DY: 60, Axes: AxesTopLeft}, ok: true}
	s := NewRegistrationStrategy(reg)

	c, err := s.Best(needle, haystack, Options{Confidence: 0.95, Region: region})
	if err != nil || c == nil {
		t.Fatalf("配准策略应命中: %v", err)
	}
	if c.Origin != (Point{X: 210, Y: 160}) {
		t.Errorf("区域偏移未加回: %+v", c.Origin)
	}
	if reg.lastWidth != 100 || reg.lastHeight != 100 {
		t.Errorf("配准原语应只看到区域截图, 实际 %dx%d", reg.lastWidth, reg.lastHeight)
	}
}

func TestRegistrationFallsBackToBruteForce(t *testing.T) {
	needle := newNeedle(30, 30)
	haystack := embed(newHaystack(200, 200), needle, Point{X: 40, Y: 100})

	tests := []struct {
		name string
		reg  *fakeRegistrar
	}{
		{"未收敛", &fakeRegistrar{ok: false}},
		{"错误位置", &fakeRegistrar{alignment: Alignment{DX: 150, DY: 10}, ok: true}},
		{"越界", &fakeRegistrar{alignment: Alignment{DX: 190, DY: 190}, ok: true}},
		{"原语报错", &fakeRegistrar{err: errors.New("boom")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(NewRegistrationStrategy(tc.reg))
			c, err := m.Match(needle, haystack, DefaultOptions())
			if err != nil || c == nil {
				t.Fatalf("应回退到穷举匹配: %v", err)
			}
			if c.Origin != (Point{X: 40, Y: 100}) {
				t.Errorf("回退结果错误: %+v", c.Origin)
			}
			if tc.reg.calls != 1 {
				t.Errorf("配准原语应调用 1 次, 实际 %d", tc.reg.calls)
			}
		})
	}
}

func TestMatcherStrategies(t *testing.T) {
	m := New(NewRegistrationStrategy(&fakeRegistrar{}))
	names := m.Strategies()
	if len(names) != 2 || names[0] != "registration" || names[1] != "bruteforce" {
		t.Errorf("策略顺序错误: %v", names)
	}

	b := &BruteForce{Workers: 2}
	m = New(b, nil)
	if len(m.Strategies()) != 1 || m.brute != b {
		t.Errorf("已有 BruteForce 时不应重复追加: %v", m.Strategies())
	}
}
