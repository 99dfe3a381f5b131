package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/zoeyai/zoeyauto/pkg/easing"
)

// MatchSettings 图像定位配置
type MatchSettings struct {
	Confidence      float64 `json:"confidence" yaml:"confidence" ini:"confidence"`
	Grayscale       bool    `json:"grayscale" yaml:"grayscale" ini:"grayscale"`
	UseRegistration bool    `json:"use_registration" yaml:"use_registration" ini:"use_registration"`
	MaxResults      int     `json:"max_results" yaml:"max_results" ini:"max_results"`
	// ImageDir 相对路径图片的查找目录，为空时使用当前目录
	ImageDir string `json:"image_dir" yaml:"image_dir" ini:"image_dir"`
}

// MotionSettings 动画配置
type MotionSettings struct {
	FrameRate  float64 `json:"frame_rate" yaml:"frame_rate" ini:"frame_rate"`
	Curve      string  `json:"curve" yaml:"curve" ini:"curve"`
	DurationMs int     `json:"duration_ms" yaml:"duration_ms" ini:"duration_ms"`
}

// LogSettings 日志配置
type LogSettings struct {
	Level   string `json:"level" yaml:"level" ini:"level"`
	Console bool   `json:"console" yaml:"console" ini:"console"`
	File    bool   `json:"file" yaml:"file" ini:"file"`
	Path    string `json:"path" yaml:"path" ini:"path"`
}

// Settings 全部配置
type Settings struct {
	Match  MatchSettings  `json:"match" yaml:"match" ini:"match"`
	Motion MotionSettings `json:"motion" yaml:"motion" ini:"motion"`
	Log    LogSettings    `json:"log" yaml:"log" ini:"log"`
}

// DefaultSettings 默认配置
func DefaultSettings() *Settings {
	return &Settings{
		Match: MatchSettings{
			Confidence:      0.95,
			UseRegistration: true,
		},
		Motion: MotionSettings{
			FrameRate:  60,
			Curve:      "linear",
			DurationMs: 300,
		},
		Log: LogSettings{
			Level:   "info",
			Console: true,
		},
	}
}

// Validate 校验配置取值
func (s *Settings) Validate() error {
	if s.Match.Confidence < 0 || s.Match.Confidence > 1 {
		return fmt.Errorf("match.confidence 必须在 [0,1] 之间: %v", s.Match.Confidence)
	}
	if s.Match.MaxResults < 0 {
		return fmt.Errorf("match.max_results 不能为负数: %d", s.Match.MaxResults)
	}
	if s.Motion.FrameRate <= 0 {
		return fmt.Errorf("motion.frame_rate 必须大于 0: %v", s.Motion.FrameRate)
	}
	if s.Motion.DurationMs < 0 {
		return fmt.Errorf("motion.duration_ms 不能为负数: %d", s.Motion.DurationMs)
	}
	if _, err := easing.ByName(s.Motion.Curve); err != nil {
		return fmt.Errorf("motion.curve: %w", err)
	}
	if s.Log.File && s.Log.Path == "" {
		return fmt.Errorf("log.file 开启时必须设置 log.path")
	}
	return nil
}

// LoadFile 从指定文件加载配置，按扩展名选择格式 (.json/.yaml/.yml/.ini)
// 文件中未出现的字段保留默认值
func LoadFile(path string) (*Settings, error) {
	s := DefaultSettings()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ini":
		cfg, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := cfg.MapTo(s); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, s)
		} else {
			err = yaml.Unmarshal(data, s)
		}
		if err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s", path)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器，配置位于 ~/.zoeyauto/config.json
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".zoeyauto"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置，文件不存在时返回默认配置
func (m *Manager) Load() (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	return s, nil
}

// Save 保存配置
func (m *Manager) Save(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}
