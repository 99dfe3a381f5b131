package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Match.Confidence != 0.95 {
		t.Errorf("默认 Confidence 应为 0.95, 实际为 %v", s.Match.Confidence)
	}
	if !s.Match.UseRegistration {
		t.Error("默认应启用配准策略")
	}
	if s.Motion.FrameRate != 60 || s.Motion.Curve != "linear" {
		t.Errorf("默认动画配置错误: %+v", s.Motion)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("默认配置应通过校验: %v", err)
	}

	t.Logf("默认配置: %+v", s)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"置信度越界", func(s *Settings) { s.Match.Confidence = 1.5 }},
		{"结果数为负", func(s *Settings) { s.Match.MaxResults = -1 }},
		{"帧率为 0", func(s *Settings) { s.Motion.FrameRate = 0 }},
		{"时长为负", func(s *Settings) { s.Motion.DurationMs = -10 }},
		{"未知曲线", func(s *Settings) { s.Motion.Curve = "wobble" }},
		{"缺少日志路径", func(s *Settings) { s.Log.File = true }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("应返回校验错误")
			}
		})
	}
}

func TestManagerSaveAndLoad(t *testing.T) {
	// 使用临时目录
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	// 检查初始状态
	if manager.Exists() {
		t.Error("初始时配置文件不应存在")
	}

	s := DefaultSettings()
	s.Match.Confidence = 0.8
	s.Match.Grayscale = true
	s.Motion.Curve = "easeInOutCubic"
	s.Log.Level = "debug"

	if err := manager.Save(s); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	if !manager.Exists() {
		t.Error("保存后配置文件应存在")
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if *loaded != *s {
		t.Errorf("加载结果不一致: 期望 %+v, 实际 %+v", s, loaded)
	}
}

func TestManagerSaveRejectsInvalid(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	s := DefaultSettings()
	s.Motion.FrameRate = -1

	if err := manager.Save(s); err == nil {
		t.Error("无效配置不应被保存")
	}
	if manager.Exists() {
		t.Error("保存失败时不应创建文件")
	}
}

func TestManagerClear(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if err := manager.Save(DefaultSettings()); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	if !manager.Exists() {
		t.Fatal("保存后配置文件应存在")
	}

	if err := manager.Clear(); err != nil {
		t.Fatalf("清除配置失败: %v", err)
	}
	if manager.Exists() {
		t.Error("清除后配置文件不应存在")
	}

	// 清除不存在的文件不应报错
	if err := manager.Clear(); err != nil {
		t.Errorf("清除不存在的配置不应报错: %v", err)
	}
}

func TestManagerLoadNonExistent(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	s, err := manager.Load()
	if err != nil {
		t.Fatalf("加载不存在的配置不应报错: %v", err)
	}
	if *s != *DefaultSettings() {
		t.Errorf("应返回默认配置: %+v", s)
	}
}

func TestManagerLoadCorruptedFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	configFile := filepath.Join(tempDir, "config.json")
	if err := os.WriteFile(configFile, []byte("not valid json"), 0600); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}

	s, err := manager.Load()
	if err == nil {
		t.Error("加载损坏的配置应返回错误")
	}
	if s == nil {
		t.Error("即使出错也应返回默认配置")
	}
}

func TestManagerPaths(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if manager.GetConfigDir() != tempDir {
		t.Errorf("GetConfigDir 应为 %s", tempDir)
	}
	expectedFile := filepath.Join(tempDir, "config.json")
	if manager.GetConfigFile() != expectedFile {
		t.Errorf("GetConfigFile 应为 %s", expectedFile)
	}

	homeDir, _ := os.UserHomeDir()
	if homeDir != "" && NewManager().GetConfigDir() != filepath.Join(homeDir, ".zoeyauto") {
		t.Errorf("默认配置目录应位于用户目录下: %s", NewManager().GetConfigDir())
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "zoey.json", `{"match": {"confidence": 0.85, "max_results": 3}, "motion": {"curve": "ease-out-bounce"}}`},
		{"yaml", "zoey.yaml", "match:\n  confidence: 0.85\n  max_results: 3\nmotion:\n  curve: ease-out-bounce\n"},
		{"yml", "zoey.yml", "match:\n  confidence: 0.85\n  max_results: 3\nmotion:\n  curve: ease-out-bounce\n"},
		{"ini", "zoey.ini", "[match]\nconfidence = 0.85\nmax_results = 3\n\n[motion]\ncurve = ease-out-bounce\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := LoadFile(writeFile(t, tc.file, tc.content))
			if err != nil {
				t.Fatalf("加载失败: %v", err)
			}
			if s.Match.Confidence != 0.85 || s.Match.MaxResults != 3 || s.Motion.Curve != "ease-out-bounce" {
				t.Errorf("字段未正确解析: %+v", s)
			}
			// 未出现的字段保留默认值
			if s.Motion.FrameRate != 60 || !s.Match.UseRegistration || s.Log.Level != "info" {
				t.Errorf("未出现的字段应保留默认值: %+v", s)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "zoey.toml", "x = 1")); err == nil {
		t.Error("不支持的格式应返回错误")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("文件不存在应返回错误")
	}
	if _, err := LoadFile(writeFile(t, "bad.yaml", "motion:\n  frame_rate: 0\n")); err == nil {
		t.Error("校验失败应返回错误")
	}
}
