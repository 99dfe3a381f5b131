//go:build !darwin

package permissions

// CheckPermissions 非 macOS 系统不需要额外授权
func CheckPermissions() PermissionStatus {
	return PermissionStatus{Accessibility: true, ScreenRecording: true}
}

// OpenSettings 非 macOS 系统无操作
func OpenSettings(need Need) {}
