package auto

import (
	"fmt"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/raster"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// LocateOnScreen 在屏幕上查找图片
// 未找到返回 nil, nil；加载失败的错误包装 raster.ErrNotFound / raster.ErrDecode，截屏失败包装 ErrCapture
func (a *Automator) LocateOnScreen(path string, opts ...Option) (*Rect, error) {
	o := ApplyOptions(a.defaults, opts...)
	log := a.trace()
	start := time.Now()

	rect, err := a.locateOnScreen(path, o)
	if err != nil {
		log.LogEvent("MTCH", false, elapsedMs(start), fmt.Sprintf("%s: %v", path, err))
		return nil, err
	}
	if rect == nil {
		log.LogEvent("MTCH", false, elapsedMs(start), fmt.Sprintf("%s: 未找到 (confidence=%.2f)", path, o.Confidence))
		return nil, nil
	}
	log.LogEvent("MTCH", true, elapsedMs(start), fmt.Sprintf("%s -> (%d, %d, %d, %d)", path, rect.X, rect.Y, rect.Width, rect.Height))
	return rect, nil
}

func (a *Automator) locateOnScreen(path string, o Options) (*Rect, error) {
	if err := checkRegion(o.Region); err != nil {
		return nil, err
	}
	needle, err := a.loadNeedle(path)
	if err != nil {
		return nil, err
	}
	haystack, meta, err := a.capture(o.Region)
	if err != nil {
		return nil, err
	}

	c, err := a.matcher.Match(needle, haystack, o.matchOptions(nil))
	if err != nil || c == nil {
		return nil, err
	}
	rect := meta.AdjustCandidate(*c)
	return &rect, nil
}

// LocateCenterOnScreen 在屏幕上查找图片并返回中心点
// 结果恰好是 LocateOnScreen 矩形的中心
func (a *Automator) LocateCenterOnScreen(path string, opts ...Option) (*Point, error) {
	rect, err := a.LocateOnScreen(path, opts...)
	if err != nil || rect == nil {
		return nil, err
	}
	p := rect.Center()
	return &p, nil
}

// LocateAllOnScreen 在屏幕上查找图片的所有出现位置
// 结果两两之间的重叠率都小于 match.SuppressOverlap
func (a *Automator) LocateAllOnScreen(path string, opts ...Option) ([]Rect, error) {
	o := ApplyOptions(a.defaults, opts...)
	log := a.trace()
	start := time.Now()

	rects, err := a.locateAllOnScreen(path, o)
	if err != nil {
		log.LogEvent("MTCH", false, elapsedMs(start), fmt.Sprintf("%s: %v", path, err))
		return nil, err
	}
	log.LogEvent("MTCH", len(rects) > 0, elapsedMs(start), fmt.Sprintf("%s -> %d 个结果", path, len(rects)))
	return rects, nil
}

func (a *Automator) locateAllOnScreen(path string, o Options) ([]Rect, error) {
	if err := checkRegion(o.Region); err != nil {
		return nil, err
	}
	needle, err := a.loadNeedle(path)
	if err != nil {
		return nil, err
	}
	haystack, meta, err := a.capture(o.Region)
	if err != nil {
		return nil, err
	}

	cands, err := a.matcher.MatchAll(needle, haystack, o.matchOptions(nil))
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, len(cands))
	for i, c := range cands {
		rects[i] = meta.AdjustCandidate(c)
	}
	return rects, nil
}

// Locate 在已截取的图像中查找 needle，Region 为 haystack 坐标
func (a *Automator) Locate(needle, haystack *raster.Image, opts ...Option) (*Rect, error) {
	o := ApplyOptions(a.defaults, opts...)
	if err := checkRegion(o.Region); err != nil {
		return nil, err
	}
	c, err := a.matcher.Match(needle, haystack, o.matchOptions(toMatchRegion(o.Region)))
	if err != nil || c == nil {
		return nil, err
	}
	rect := IdentityMeta().AdjustCandidate(*c)
	return &rect, nil
}

// LocateAll 在已截取的图像中查找所有匹配
func (a *Automator) LocateAll(needle, haystack *raster.Image, opts ...Option) ([]Rect, error) {
	o := ApplyOptions(a.defaults, opts...)
	if err := checkRegion(o.Region); err != nil {
		return nil, err
	}
	cands, err := a.matcher.MatchAll(needle, haystack, o.matchOptions(toMatchRegion(o.Region)))
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, len(cands))
	for i, c := range cands {
		rects[i] = IdentityMeta().AdjustCandidate(c)
	}
	return rects, nil
}

func checkRegion(r *Region) error {
	if r != nil && (r.Width <= 0 || r.Height <= 0) {
		return fmt.Errorf("无效的搜索区域: %dx%d", r.Width, r.Height)
	}
	return nil
}

func toMatchRegion(r *Region) *match.Region {
	if r == nil {
		return nil
	}
	return &match.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
