package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound 图像文件不存在
	ErrNotFound = errors.New("raster: 图像不存在")
	// ErrDecode 图像无法解码（损坏或格式不支持）
	ErrDecode = errors.New("raster: 图像解码失败")
)

const dataURLPrefix = "data:image/"

// Decode 从 reader 解码图像
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return FromImage(img), nil
}

// DecodeDataURL 解码 data:image/...;base64, 格式的字符串
func DecodeDataURL(s string) (*Image, error) {
	comma := strings.IndexByte(s, ',')
	if !strings.HasPrefix(s, dataURLPrefix) || comma < 0 || !strings.Contains(s[:comma], ";base64") {
		return nil, fmt.Errorf("%w: 不是 base64 data URL", ErrDecode)
	}
	data, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecode, err)
	}
	return Decode(bytes.NewReader(data))
}

// Store 从磁盘加载图像，按路径缓存解码结果
// Image 不可变，所以缓存的实例可以安全地被并发共享
type Store struct {
	// BaseDir 相对路径的基准目录，为空时使用当前工作目录
	BaseDir string

	mu    sync.Mutex
	cache map[string]*Image
}

// NewStore 创建图像存储
func NewStore(baseDir string) *Store {
	return &Store{BaseDir: baseDir, cache: make(map[string]*Image)}
}

// Load 加载图像
// path 可以是文件路径或 base64 data URL
func (s *Store) Load(path string) (*Image, error) {
	if strings.HasPrefix(path, dataURLPrefix) {
		return DecodeDataURL(path)
	}

	resolved := path
	if s.BaseDir != "" && !filepath.IsAbs(path) {
		resolved = filepath.Join(s.BaseDir, path)
	}

	s.mu.Lock()
	if img, ok := s.cache[resolved]; ok {
		s.mu.Unlock()
		return img, nil
	}
	s.mu.Unlock()

	img, err := Load(resolved)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[string]*Image)
	}
	s.cache[resolved] = img
	s.mu.Unlock()
	return img, nil
}

// Forget 清除缓存
func (s *Store) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*Image)
}

// Load 直接从文件加载图像（不缓存）
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("打开图像失败: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
