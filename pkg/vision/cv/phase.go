package cv

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/zoeyai/zoeyauto/pkg/raster"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

// DefaultMinResponse 相位相关峰值响应的默认下限
// needle 远小于 haystack 时响应天然偏低，阈值不宜过高
const DefaultMinResponse = 0.02

// PhaseRegistrar 基于 OpenCV 相位相关的配准原语
type PhaseRegistrar struct {
	// MinResponse 峰值响应低于该值视为未收敛
	MinResponse float64
}

// NewPhaseRegistrar 创建相位相关配准器
func NewPhaseRegistrar() *PhaseRegistrar {
	return &PhaseRegistrar{MinResponse: DefaultMinResponse}
}

// Register 估计 needle 左上角在 haystack 中的位置
// needle 补零到 haystack 大小后与 haystack 做相位相关，平移量按 haystack 尺寸取模
func (p *PhaseRegistrar) Register(needle, haystack *raster.Image) (match.Alignment, bool, error) {
	if needle.Width() > haystack.Width() || needle.Height() > haystack.Height() {
		return match.Alignment{}, false, nil
	}

	src, err := ToFloatGray(needle)
	if err != nil {
		return match.Alignment{}, false, err
	}
	defer src.Close()

	dst, err := ToFloatGray(haystack)
	if err != nil {
		return match.Alignment{}, false, err
	}
	defer dst.Close()

	padded := PadTo(src, image.Point{X: dst.Cols(), Y: dst.Rows()})
	defer padded.Close()

	window := gocv.NewMat()
	defer window.Close()

	shift, response := gocv.PhaseCorrelate(padded, dst, window)
	if response < p.MinResponse {
		return match.Alignment{}, false, nil
	}

	return match.Alignment{
		DX:       wrap(float64(shift.X), haystack.Width()),
		DY:       wrap(float64(shift.Y), haystack.Height()),
		Axes:     match.AxesTopLeft,
		Response: response,
	}, true, nil
}

// wrap 将循环平移量折回 [0, size)
func wrap(v float64, size int) float64 {
	s := float64(size)
	for v < -0.5 {
		v += s
	}
	for v >= s-0.5 {
		v -= s
	}
	return v
}
