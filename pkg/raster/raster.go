// Package raster 提供不可变的 RGBA8 像素缓冲区
//
// 匹配器只读取 Image，从不修改；所有构造函数都会复制像素数据，
// 因此调用方在构造之后修改原始数据不会影响已创建的 Image。
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// BytesPerPixel 每个像素占用的字节数 (R, G, B, A)
const BytesPerPixel = 4

// ErrInvalidSize 尺寸与像素数据长度不一致
var ErrInvalidSize = errors.New("raster: 像素数据长度与尺寸不一致")

// Image 不可变像素缓冲区（行优先，每像素 4 字节）
type Image struct {
	width  int
	height int
	pix    []byte
}

// New 使用给定像素数据创建 Image（数据会被复制）
func New(width, height int, pix []byte) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(pix) != width*height*BytesPerPixel {
		return nil, fmt.Errorf("%w: %dx%d 需要 %d 字节, 实际 %d",
			ErrInvalidSize, width, height, width*height*BytesPerPixel, len(pix))
	}
	buf := make([]byte, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, pix: buf}, nil
}

// FromImage 将 image.Image 转换为 Image
// 原点会被平移到 (0, 0)
func FromImage(src image.Image) *Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return &Image{width: b.Dx(), height: b.Dy(), pix: rgba.Pix}
}

// Filled 创建纯色图像
func Filled(width, height int, c color.RGBA) *Image {
	pix := make([]byte, width*height*BytesPerPixel)
	for i := 0; i < len(pix); i += BytesPerPixel {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return &Image{width: width, height: height, pix: pix}
}

// Width 宽度
func (m *Image) Width() int { return m.width }

// Height 高度
func (m *Image) Height() int { return m.height }

// Bounds 返回 (0,0)-(w,h) 的矩形
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Empty 是否为空图像
func (m *Image) Empty() bool {
	return m == nil || m.width == 0 || m.height == 0
}

// Offset 返回像素 (x, y) 在缓冲区中的起始下标
func (m *Image) Offset(x, y int) int {
	return (y*m.width + x) * BytesPerPixel
}

// Pix 返回底层像素数据，调用方不得修改
func (m *Image) Pix() []byte {
	return m.pix
}

// At 返回像素颜色
func (m *Image) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return color.RGBA{}
	}
	i := m.Offset(x, y)
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: m.pix[i+3]}
}

// ToRGBA 转换为新的 *image.RGBA（副本）
func (m *Image) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(m.Bounds())
	copy(dst.Pix, m.pix)
	return dst
}

// Gray 返回亮度图（R=G=B=亮度），用于灰度匹配
func (m *Image) Gray() *Image {
	if m.Empty() {
		return m
	}
	g := gift.New(gift.Grayscale())
	dst := image.NewRGBA(g.Bounds(m.Bounds()))
	g.Draw(dst, m.ToRGBA())
	return &Image{width: m.width, height: m.height, pix: dst.Pix}
}

// Crop 复制指定区域为新图像，区域会被裁剪到图像范围内
func (m *Image) Crop(r image.Rectangle) *Image {
	r = r.Intersect(m.Bounds())
	out := &Image{width: r.Dx(), height: r.Dy(), pix: make([]byte, r.Dx()*r.Dy()*BytesPerPixel)}
	rowLen := r.Dx() * BytesPerPixel
	for y := 0; y < r.Dy(); y++ {
		src := m.Offset(r.Min.X, r.Min.Y+y)
		copy(out.pix[y*rowLen:(y+1)*rowLen], m.pix[src:src+rowLen])
	}
	return out
}

// Compose 返回将 patch 覆盖到 (x, y) 后的新图像，原图不变
// 超出范围的部分会被丢弃
func (m *Image) Compose(patch *Image, x, y int) *Image {
	out := &Image{width: m.width, height: m.height, pix: make([]byte, len(m.pix))}
	copy(out.pix, m.pix)
	for py := 0; py < patch.height; py++ {
		ty := y + py
		if ty < 0 || ty >= m.height {
			continue
		}
		for px := 0; px < patch.width; px++ {
			tx := x + px
			if tx < 0 || tx >= m.width {
				continue
			}
			si := patch.Offset(px, py)
			di := out.Offset(tx, ty)
			copy(out.pix[di:di+BytesPerPixel], patch.pix[si:si+BytesPerPixel])
		}
	}
	return out
}
