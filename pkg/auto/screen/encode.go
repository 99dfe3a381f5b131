package screen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/zoeyai/zoeyauto/pkg/raster"
)

// Encode 将图像编码为 png 或 jpeg
// format 默认 "png"，quality 仅对 jpeg 生效，默认 80
func Encode(img *raster.Image, format string, quality int) ([]byte, string, error) {
	if img.Empty() {
		return nil, "", fmt.Errorf("图像为空")
	}
	if format == "" {
		format = "png"
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img.ToRGBA()); err != nil {
			return nil, "", fmt.Errorf("PNG 编码失败: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img.ToRGBA(), &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", fmt.Errorf("JPEG 编码失败: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	default:
		return nil, "", fmt.Errorf("不支持的图像格式: %s", format)
	}
}

// ImageToDataURL 将图像转换为 data URL，可直接作为 raster.Store 的输入
func ImageToDataURL(img *raster.Image, format string, quality int) (string, error) {
	data, mimeType, err := Encode(img, format, quality)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

// SaveImage 保存图像文件，格式由 format 决定
func SaveImage(path string, img *raster.Image, format string) error {
	data, _, err := Encode(img, format, 0)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("保存图像失败: %w", err)
	}
	return nil
}
