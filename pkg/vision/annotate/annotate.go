// Package annotate 在截图上标注匹配结果，用于调试
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zoeyai/zoeyauto/pkg/raster"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// FontSize 标签字号
const FontSize = 12

var (
	// BoxColor 最佳结果的边框颜色
	BoxColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	// AltColor 其余结果的边框颜色
	AltColor = color.RGBA{R: 0, G: 200, B: 255, A: 255}
)

var (
	fontOnce sync.Once
	labelFnt *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		labelFnt, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFnt, fontErr
}

// Draw 返回标注后的新图像，haystack 不会被修改
// 第一个候选使用 BoxColor，其余使用 AltColor；每个框左上方标注序号与分数
func Draw(haystack *raster.Image, cands []match.Candidate) (*raster.Image, error) {
	if haystack.Empty() {
		return nil, fmt.Errorf("图像为空")
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}

	dst := haystack.ToRGBA()
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(FontSize)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetHinting(font.HintingFull)

	for i, cand := range cands {
		col := AltColor
		if i == 0 {
			col = BoxColor
		}
		r := cand.Rect().Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		strokeRect(dst, r, col)

		// 框上方放不下时画在框内
		y := r.Min.Y - 2
		if y < FontSize {
			y = r.Min.Y + FontSize
		}
		c.SetSrc(image.NewUniform(col))
		label := fmt.Sprintf("#%d %.3f", i+1, cand.Score)
		if _, err := c.DrawString(label, freetype.Pt(r.Min.X, y)); err != nil {
			return nil, fmt.Errorf("绘制标签失败: %w", err)
		}
	}
	return raster.FromImage(dst), nil
}

// strokeRect 绘制 2 像素宽的矩形边框
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	for t := 0; t < 2; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, r.Min.Y+t, col)
			dst.SetRGBA(x, r.Max.Y-1-t, col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.SetRGBA(r.Min.X+t, y, col)
			dst.SetRGBA(r.Max.X-1-t, y, col)
		}
	}
}
