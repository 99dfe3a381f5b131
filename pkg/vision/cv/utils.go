package cv

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// ImageToMat 将 raster.Image 转换为 gocv.Mat (BGR, CV_8UC3)
func ImageToMat(img *raster.Image) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("图像为空")
	}
	mat, err := gocv.ImageToMatRGB(img.ToRGBA())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	return mat, nil
}

// ToGray 转换为灰度图
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// ToFloatGray 转换为单通道 float32 灰度图，相位相关要求浮点输入
func ToFloatGray(img *raster.Image) (gocv.Mat, error) {
	mat, err := ImageToMat(img)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()

	gray := ToGray(mat)
	defer gray.Close()

	dst := gocv.NewMat()
	gray.ConvertTo(&dst, gocv.MatTypeCV32F)
	return dst, nil
}

// PadTo 在右侧和下方补零，使 src 扩展到 size 大小
func PadTo(src gocv.Mat, size image.Point) gocv.Mat {
	dst := gocv.NewMat()
	bottom := size.Y - src.Rows()
	right := size.X - src.Cols()
	if bottom < 0 {
		bottom = 0
	}
	if right < 0 {
		right = 0
	}
	gocv.CopyMakeBorder(src, &dst, 0, bottom, 0, right, gocv.BorderConstant, color.RGBA{})
	return dst
}
