package match

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// bandRowsPerWorker 每个批次中每个 worker 分到的行数
const bandRowsPerWorker = 4

var (
	workerOnce  sync.Once
	workerCount int
)

// defaultWorkers 返回物理核心数量
// 逐像素比较受限于访存和整数运算，超线程几乎没有收益
func defaultWorkers() int {
	workerOnce.Do(func() {
		n, err := cpu.Counts(false)
		if err != nil || n <= 0 {
			n = runtime.NumCPU()
		}
		workerCount = n
	})
	return workerCount
}

// BruteForce 滑动窗口穷举匹配
//
// 分数为 RGB 三通道差值均不超过 PixelTolerance 的像素占比。
// 行按批次并行计算，再按扫描顺序合并，结果与顺序扫描完全一致。
type BruteForce struct {
	// Workers 并行 worker 数量，<= 0 时使用物理核心数量
	Workers int
}

// NewBruteForce 创建穷举匹配策略
func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

// Name 策略名称
func (b *BruteForce) Name() string {
	return "bruteforce"
}

// Best 返回扫描顺序中第一个分数最高且不低于阈值的偏移
// 遇到分数 >= PerfectScore 的偏移立即停止
func (b *BruteForce) Best(needle, haystack *raster.Image, opts Options) (*Candidate, error) {
	if err := validate(needle, haystack); err != nil {
		return nil, err
	}
	area, ok := searchArea(needle, haystack, opts.Region)
	if !ok {
		return nil, nil
	}

	s := newScorer(needle, haystack)
	thrCount := s.countFor(opts.threshold())
	perfectCount := s.countFor(PerfectScore)
	step := opts.step()

	best := rowBest{x: -1, count: -1}
	bestY := -1
	rows := offsets(area.y0, area.y1, step)

	forEachBand(b.workers(), rows, func(y int) rowBest {
		return s.scanRowBest(y, area.x0, area.x1, step, thrCount, perfectCount)
	}, func(y int, r rowBest) bool {
		if r.x >= 0 && r.count > best.count {
			best = r
			bestY = y
		}
		return r.perfect
	})

	if bestY < 0 {
		return nil, nil
	}
	return s.candidate(best.x, bestY, best.count), nil
}

// Candidates 返回所有分数不低于阈值的偏移（按扫描顺序，不提前停止）
func (b *BruteForce) Candidates(needle, haystack *raster.Image, opts Options) ([]Candidate, error) {
	if err := validate(needle, haystack); err != nil {
		return nil, err
	}
	area, ok := searchArea(needle, haystack, opts.Region)
	if !ok {
		return nil, nil
	}

	s := newScorer(needle, haystack)
	thrCount := s.countFor(opts.threshold())
	step := opts.step()

	var out []Candidate
	rows := offsets(area.y0, area.y1, step)
	forEachBand(b.workers(), rows, func(y int) []Candidate {
		return s.scanRowAll(y, area.x0, area.x1, step, thrCount)
	}, func(_ int, found []Candidate) bool {
		out = append(out, found...)
		return false
	})
	return out, nil
}

// forEachBand 按批次并行执行 scan，并按行顺序调用 merge
// merge 返回 true 时停止后续批次
func forEachBand[T any](workers int, rows []int, scan func(y int) T, merge func(y int, r T) bool) {
	if workers <= 1 || len(rows) <= 1 {
		for _, y := range rows {
			if merge(y, scan(y)) {
				return
			}
		}
		return
	}

	bandSize := workers * bandRowsPerWorker
	results := make([]T, bandSize)
	for start := 0; start < len(rows); start += bandSize {
		band := rows[start:min(start+bandSize, len(rows))]

		var next atomic.Int64
		var wg sync.WaitGroup
		for w := 0; w < min(workers, len(band)); w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					i := int(next.Add(1)) - 1
					if i >= len(band) {
						return
					}
					results[i] = scan(band[i])
				}
			}()
		}
		wg.Wait()

		for i, y := range band {
			if merge(y, results[i]) {
				return
			}
		}
	}
}

func (b *BruteForce) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return defaultWorkers()
}

// Score 计算 needle 放在 haystack (x, y) 处的相似度
// needle 超出 haystack 范围时返回 0
func Score(needle, haystack *raster.Image, x, y int) float64 {
	if validate(needle, haystack) != nil {
		return 0
	}
	if x < 0 || y < 0 || x+needle.Width() > haystack.Width() || y+needle.Height() > haystack.Height() {
		return 0
	}
	s := newScorer(needle, haystack)
	return float64(s.count(x, y, 0)) / float64(s.total)
}

// ============ 内部实现 ============

type bounds struct {
	x0, y0, x1, y1 int // 偏移范围（闭区间）
}

// searchArea 计算 needle 左上角允许的偏移范围
func searchArea(needle, haystack *raster.Image, region *Region) (bounds, bool) {
	r := haystack.Bounds()
	if region != nil {
		r = region.Rect().Intersect(r)
	}
	b := bounds{
		x0: r.Min.X,
		y0: r.Min.Y,
		x1: r.Max.X - needle.Width(),
		y1: r.Max.Y - needle.Height(),
	}
	if r.Empty() || b.x1 < b.x0 || b.y1 < b.y0 {
		return bounds{}, false
	}
	return b, true
}

func offsets(from, to, step int) []int {
	out := make([]int, 0, (to-from)/step+1)
	for v := from; v <= to; v += step {
		out = append(out, v)
	}
	return out
}

type rowBest struct {
	x       int
	count   int
	perfect bool
}

type scorer struct {
	needle   *raster.Image
	haystack *raster.Image
	total    int
}

func newScorer(needle, haystack *raster.Image) *scorer {
	return &scorer{needle: needle, haystack: haystack, total: needle.Width() * needle.Height()}
}

// countFor 返回满足 count/total >= score 的最小像素数
func (s *scorer) countFor(score float64) int {
	c := int(score * float64(s.total))
	for c > 0 && float64(c-1)/float64(s.total) >= score {
		c--
	}
	for c <= s.total && float64(c)/float64(s.total) < score {
		c++
	}
	return c
}

func (s *scorer) candidate(x, y, count int) *Candidate {
	return &Candidate{
		Origin: Point{X: x, Y: y},
		Size:   Size{Width: s.needle.Width(), Height: s.needle.Height()},
		Score:  float64(count) / float64(s.total),
	}
}

func (s *scorer) scanRowBest(y, x0, x1, step, thrCount, perfectCount int) rowBest {
	best := rowBest{x: -1, count: -1}
	for x := x0; x <= x1; x += step {
		need := max(thrCount, best.count+1)
		c := s.count(x, y, need)
		if c < 0 || c <= best.count {
			continue
		}
		best.x, best.count = x, c
		if c >= perfectCount {
			best.perfect = true
			return best
		}
	}
	return best
}

func (s *scorer) scanRowAll(y, x0, x1, step, thrCount int) []Candidate {
	var out []Candidate
	for x := x0; x <= x1; x += step {
		if c := s.count(x, y, thrCount); c >= 0 {
			out = append(out, *s.candidate(x, y, c))
		}
	}
	return out
}

// count 统计 (x, y) 处匹配的像素数
// 剩余像素全部匹配也达不到 need 时提前返回 -1
func (s *scorer) count(x, y, need int) int {
	nw, nh := s.needle.Width(), s.needle.Height()
	hw := s.haystack.Width()
	np, hp := s.needle.Pix(), s.haystack.Pix()

	matched := 0
	remaining := s.total
	for ny := 0; ny < nh; ny++ {
		ni := ny * nw * raster.BytesPerPixel
		hi := ((y+ny)*hw + x) * raster.BytesPerPixel
		for nx := 0; nx < nw; nx++ {
			if near(np[ni], hp[hi]) && near(np[ni+1], hp[hi+1]) && near(np[ni+2], hp[hi+2]) {
				matched++
			}
			ni += raster.BytesPerPixel
			hi += raster.BytesPerPixel
		}
		remaining -= nw
		if matched+remaining < need {
			return -1
		}
	}
	return matched
}

func near(a, b byte) bool {
	d := int(a) - int(b)
	return d <= PixelTolerance && d >= -PixelTolerance
}
