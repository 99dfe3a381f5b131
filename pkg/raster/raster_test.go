package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("PNG 编码失败: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

func TestNewCopiesPixels(t *testing.T) {
	pix := make([]byte, 2*2*BytesPerPixel)
	img, err := New(2, 2, pix)
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	pix[0] = 255
	if img.At(0, 0).R != 0 {
		t.Error("修改原始数据不应影响 Image")
	}

	if _, err := New(3, 3, pix); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("长度不一致应返回 ErrInvalidSize, 实际 %v", err)
	}
}

func TestFromImageTranslatesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 14, 13))
	src.SetRGBA(10, 10, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	img := FromImage(src)
	if img.Width() != 4 || img.Height() != 3 {
		t.Fatalf("尺寸错误: %dx%d", img.Width(), img.Height())
	}
	if got := img.At(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("原点像素错误: %v", got)
	}
}

func TestComposeAndCrop(t *testing.T) {
	bg := Filled(10, 10, color.RGBA{A: 255})
	patch := Filled(3, 3, color.RGBA{R: 200, A: 255})

	out := bg.Compose(patch, 8, 8)
	if bg.At(8, 8).R != 0 {
		t.Error("Compose 不应修改原图")
	}
	if out.At(9, 9).R != 200 || out.At(7, 7).R != 0 {
		t.Error("Compose 覆盖位置错误")
	}

	c := out.Crop(image.Rect(8, 8, 20, 20))
	if c.Width() != 2 || c.Height() != 2 {
		t.Fatalf("Crop 应裁剪到图像范围, 实际 %dx%d", c.Width(), c.Height())
	}
	if c.At(0, 0).R != 200 {
		t.Error("Crop 内容错误")
	}
}

func TestGray(t *testing.T) {
	img := Filled(2, 2, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	g := img.Gray()
	p := g.At(1, 1)
	if p.R != p.G || p.G != p.B {
		t.Errorf("灰度图三通道应相等: %v", p)
	}
	if img.At(1, 1).G != 0 {
		t.Error("Gray 不应修改原图")
	}
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	src := image.NewRGBA(image.Rect(0, 0, 5, 4))
	src.SetRGBA(2, 1, color.RGBA{G: 99, A: 255})
	writePNG(t, filepath.Join(dir, "needle.png"), src)

	store := NewStore(dir)
	img, err := store.Load("needle.png")
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if img.Width() != 5 || img.Height() != 4 || img.At(2, 1).G != 99 {
		t.Errorf("图像内容错误")
	}

	again, _ := store.Load("needle.png")
	if again != img {
		t.Error("第二次加载应命中缓存")
	}

	// 文件被覆盖后清除缓存才能读到新内容
	src.SetRGBA(2, 1, color.RGBA{G: 7, A: 255})
	writePNG(t, filepath.Join(dir, "needle.png"), src)
	store.Forget()
	fresh, err := store.Load("needle.png")
	if err != nil {
		t.Fatalf("重新加载失败: %v", err)
	}
	if fresh == img || fresh.At(2, 1).G != 7 {
		t.Errorf("Forget 后应重新读取文件")
	}
}

func TestStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.Load("missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的文件应返回 ErrNotFound, 实际 %v", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = store.Load("bad.png")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("损坏的文件应返回 ErrDecode, 实际 %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("解码失败不应被识别为不存在")
	}
}

func TestDecodeDataURL(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{B: 7, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := NewStore("").Load(url)
	if err != nil {
		t.Fatalf("解码 data URL 失败: %v", err)
	}
	if img.At(1, 1).B != 7 {
		t.Error("data URL 内容错误")
	}

	if _, err := DecodeDataURL("data:image/png,xxx"); !errors.Is(err, ErrDecode) {
		t.Errorf("非 base64 data URL 应返回 ErrDecode, 实际 %v", err)
	}
}
