// Package screen 提供屏幕截图和编码功能
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/zoeyauto/pkg/auto"
	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// Screen 基于 robotgo 的截图服务，实现 auto.Capturer
type Screen struct{}

// New 创建截图服务
func New() *Screen {
	return &Screen{}
}

// Capture 截取全屏或指定区域
func (s *Screen) Capture(region *auto.Region) (*raster.Image, auto.CaptureMeta, error) {
	var img image.Image
	var err error

	if region != nil {
		img, err = robotgo.CaptureImg(region.X, region.Y, region.Width, region.Height)
	} else {
		img, err = robotgo.CaptureImg()
	}
	if err != nil {
		return nil, auto.CaptureMeta{}, fmt.Errorf("截屏失败: %w", err)
	}
	if img == nil {
		return nil, auto.CaptureMeta{}, fmt.Errorf("截屏失败: 返回空图像")
	}

	screenW, screenH := GetScreenSize()
	bounds := img.Bounds()
	meta := BuildCaptureMeta(region, bounds.Dx(), bounds.Dy(), screenW, screenH)
	return raster.FromImage(img), meta, nil
}

// BuildCaptureMeta 构建截图元信息
// imgW/imgH 为截图像素尺寸，screenW/screenH 为屏幕逻辑尺寸
func BuildCaptureMeta(region *auto.Region, imgW, imgH, screenW, screenH int) auto.CaptureMeta {
	expectedW, expectedH := screenW, screenH
	offsetX, offsetY := 0, 0
	if region != nil {
		expectedW = region.Width
		expectedH = region.Height
		offsetX = region.X
		offsetY = region.Y
	}

	scaleX := 1.0
	if expectedW > 0 && imgW > 0 {
		scaleX = float64(imgW) / float64(expectedW)
	}
	scaleY := 1.0
	if expectedH > 0 && imgH > 0 {
		scaleY = float64(imgH) / float64(expectedH)
	}

	return auto.CaptureMeta{
		ScaleX:  scaleX,
		ScaleY:  scaleY,
		OffsetX: offsetX,
		OffsetY: offsetY,
	}
}

// GetScreenSize 获取屏幕逻辑尺寸
func GetScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

// GetDisplayCount 获取显示器数量
func GetDisplayCount() int {
	return robotgo.DisplaysNum()
}
