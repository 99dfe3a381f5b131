//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices -framework CoreGraphics
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>
#import <CoreGraphics/CoreGraphics.h>

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

int checkScreenRecordingPermission() {
    if (@available(macOS 10.15, *)) {
        CFArrayRef windowList = CGWindowListCopyWindowInfo(
            kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
            kCGNullWindowID
        );

        if (windowList == NULL) {
            return 0;
        }

        CFIndex count = CFArrayGetCount(windowList);
        int hasNames = 0;

        for (CFIndex i = 0; i < count; i++) {
            CFDictionaryRef window = (CFDictionaryRef)CFArrayGetValueAtIndex(windowList, i);
            CFStringRef name = (CFStringRef)CFDictionaryGetValue(window, kCGWindowName);
            if (name != NULL && CFStringGetLength(name) > 0) {
                hasNames = 1;
                break;
            }
        }

        CFRelease(windowList);
        return (count == 0 || hasNames) ? 1 : 0;
    }
    return 1;
}

void openAccessibilityPreferences() {
    NSString *urlString = @"x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility";
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:urlString]];
}

void openScreenRecordingPreferences() {
    NSString *urlString = @"x-apple.systempreferences:com.apple.preference.security?Privacy_ScreenCapture";
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:urlString]];
}
*/
import "C"

// CheckPermissions 检查辅助功能与屏幕录制权限（不触发弹窗）
func CheckPermissions() PermissionStatus {
	return PermissionStatus{
		Accessibility:   C.checkAccessibilityPermission() == 1,
		ScreenRecording: C.checkScreenRecordingPermission() == 1,
	}
}

// OpenSettings 打开缺失权限对应的系统设置页面
func OpenSettings(need Need) {
	status := CheckPermissions()
	if need&NeedInput != 0 && !status.Accessibility {
		C.openAccessibilityPreferences()
	}
	if need&NeedCapture != 0 && !status.ScreenRecording {
		C.openScreenRecordingPreferences()
	}
}
