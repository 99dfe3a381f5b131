package match

const (
	// DefaultConfidence 近似匹配的默认阈值
	DefaultConfidence = 0.95
	// ExactConfidence 精确比较使用的阈值
	ExactConfidence = 1.0

	// PixelTolerance 单通道允许的最大差值 (0-255)
	PixelTolerance = 5
	// PerfectScore 达到该分数时立即停止搜索
	PerfectScore = 0.99
	// FineStepConfidence 阈值不低于该值时逐像素搜索，否则步长为 2
	FineStepConfidence = 0.9
	// SuppressOverlap 重叠率不低于该值的候选会被抑制
	SuppressOverlap = 0.5

	// AnyConfidence 显式的零阈值（接受任何偏移）
	// Options.Confidence 的零值表示未设置，使用 DefaultConfidence
	AnyConfidence = -1.0
)

// Options 单次匹配的参数
type Options struct {
	// Confidence 匹配阈值 (0-1)，结果分数必须 >= 该值
	// 0 表示未设置 (DefaultConfidence)，负数 (AnyConfidence) 表示阈值 0
	Confidence float64
	// Region 搜索区域 (nil 表示整个 haystack)
	Region *Region
	// Grayscale 匹配前将两张图转换为亮度图
	Grayscale bool
	// MaxResults MatchAll 最多返回的结果数 (0 表示不限制)
	MaxResults int
}

// DefaultOptions 近似匹配的默认参数
func DefaultOptions() Options {
	return Options{Confidence: DefaultConfidence}
}

// ExactOptions 精确比较的默认参数
func ExactOptions() Options {
	return Options{Confidence: ExactConfidence}
}

// threshold 返回裁剪到 [0,1] 的阈值
func (o Options) threshold() float64 {
	switch {
	case o.Confidence == 0:
		return DefaultConfidence
	case o.Confidence < 0:
		return 0
	case o.Confidence > 1:
		return 1
	default:
		return o.Confidence
	}
}

// step 返回滑动窗口步长
func (o Options) step() int {
	if o.threshold() >= FineStepConfidence {
		return 1
	}
	return 2
}
