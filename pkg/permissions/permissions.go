// Package permissions 检查截屏与输入所需的系统权限
package permissions

import (
	"fmt"
	"strings"
)

// Need 命令所需的权限
type Need uint8

const (
	// NeedCapture 截屏 (屏幕录制权限)
	NeedCapture Need = 1 << iota
	// NeedInput 模拟指针与滚轮 (辅助功能权限)
	NeedInput
)

// PermissionStatus 权限状态
type PermissionStatus struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
}

// Missing 返回 need 中尚未授予的权限名称
func (s PermissionStatus) Missing(need Need) []string {
	var out []string
	if need&NeedInput != 0 && !s.Accessibility {
		out = append(out, "辅助功能")
	}
	if need&NeedCapture != 0 && !s.ScreenRecording {
		out = append(out, "屏幕录制")
	}
	return out
}

// Instructions 返回授权说明，权限齐全时为空
func (s PermissionStatus) Instructions(need Need) string {
	missing := s.Missing(need)
	if len(missing) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "缺少权限: %s\n\n", strings.Join(missing, ", "))
	if need&NeedInput != 0 && !s.Accessibility {
		b.WriteString("辅助功能权限 (用于控制鼠标/滚轮)\n")
		b.WriteString("   系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	if need&NeedCapture != 0 && !s.ScreenRecording {
		b.WriteString("屏幕录制权限 (用于截屏和图像匹配)\n")
		b.WriteString("   系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	b.WriteString("授权后需要重新启动终端才能生效。")
	return b.String()
}

// Ensure 检查 need 所需的权限
func Ensure(need Need) error {
	status := CheckPermissions()
	if msg := status.Instructions(need); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}
