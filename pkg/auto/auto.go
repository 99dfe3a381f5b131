// Package auto 提供 UI 自动化功能
// 组合图像定位 (vision/match) 与缓动动画 (motion)，平台相关的截图与输入由子包 screen、input 实现
package auto

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zoeyai/zoeyauto/internal/logger"
	"github.com/zoeyai/zoeyauto/pkg/motion"
	"github.com/zoeyai/zoeyauto/pkg/raster"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// ErrCapture 截屏失败
var ErrCapture = errors.New("auto: 截屏失败")

// Capturer 屏幕截图服务
// region 为 nil 时截取全屏；返回的 CaptureMeta 用于把截图坐标换算回屏幕坐标
type Capturer interface {
	Capture(region *Region) (*raster.Image, CaptureMeta, error)
}

// ImageStore 图片加载
// 文件不存在时返回的错误应包装 raster.ErrNotFound，解码失败包装 raster.ErrDecode
type ImageStore interface {
	Load(path string) (*raster.Image, error)
}

// PositionReader 读取当前指针位置（屏幕坐标）
type PositionReader interface {
	Position() (x, y int)
}

// Config Automator 依赖与默认值
type Config struct {
	Capturer   Capturer
	Images     ImageStore
	Matcher    *match.Matcher
	Dispatcher motion.Dispatcher
	Position   PositionReader
	// Clock 动画时钟，nil 使用系统时钟
	Clock motion.Clock
	// Logger nil 使用默认 logger
	Logger *logger.Logger
	// Defaults 定位默认配置，可被单次调用的 Option 覆盖
	// Confidence 为 0 时使用 match.DefaultConfidence
	Defaults Options
	// FrameRate MoveTo/ScrollBy 使用的帧率，<= 0 时使用 motion.DefaultFrameRate
	FrameRate float64
}

// Automator 自动化入口
// 所有配置在构造时显式传入，不依赖全局可变状态
type Automator struct {
	capturer  Capturer
	images    ImageStore
	matcher   *match.Matcher
	scheduler *motion.Scheduler
	position  PositionReader
	log       *logger.Logger
	defaults  Options
	frameRate float64
}

// New 创建 Automator
func New(cfg Config) *Automator {
	a := &Automator{
		capturer:  cfg.Capturer,
		images:    cfg.Images,
		matcher:   cfg.Matcher,
		position:  cfg.Position,
		log:       cfg.Logger,
		defaults:  cfg.Defaults,
		frameRate: cfg.FrameRate,
	}
	if a.images == nil {
		a.images = raster.NewStore("")
	}
	if a.matcher == nil {
		a.matcher = match.New()
	}
	if a.log == nil {
		a.log = logger.Default()
	}
	if a.defaults.Confidence == 0 {
		a.defaults.Confidence = match.DefaultConfidence
	}
	if a.frameRate <= 0 {
		a.frameRate = motion.DefaultFrameRate
	}
	if cfg.Dispatcher != nil {
		a.scheduler = motion.NewScheduler(cfg.Dispatcher)
		if cfg.Clock != nil {
			a.scheduler.Clock = cfg.Clock
		}
	}
	return a
}

// trace 为一次调用生成带追踪 ID 的 logger
func (a *Automator) trace() *logger.Logger {
	return a.log.With("trace", uuid.NewString()[:8])
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func (a *Automator) loadNeedle(path string) (*raster.Image, error) {
	needle, err := a.images.Load(path)
	if err != nil {
		return nil, fmt.Errorf("加载图片失败: %w", err)
	}
	return needle, nil
}

func (a *Automator) capture(region *Region) (*raster.Image, CaptureMeta, error) {
	if a.capturer == nil {
		return nil, CaptureMeta{}, fmt.Errorf("%w: 未配置截图服务", ErrCapture)
	}
	img, meta, err := a.capturer.Capture(region)
	if err != nil {
		return nil, CaptureMeta{}, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	if img.Empty() {
		return nil, CaptureMeta{}, fmt.Errorf("%w: 截图为空", ErrCapture)
	}
	return img, meta, nil
}
