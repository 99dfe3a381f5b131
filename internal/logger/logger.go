// Package logger 提供统一的日志工具
// 控制台输出使用 tint 彩色格式，文件输出使用 JSON 格式
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DEBUG
	case "INFO", "info":
		return INFO
	case "WARN", "warn", "WARNING", "warning":
		return WARN
	case "ERROR", "error":
		return ERROR
	default:
		return INFO
	}
}

// core 同一个根 Logger 及其子 Logger 共享的输出配置
type core struct {
	mu         sync.Mutex
	level      Level
	enabled    bool
	console    bool
	consoleOut io.Writer
	noColor    bool
	file       bool
	filePath   string
	fileOut    *os.File
	out        *slog.Logger
}

// Logger 日志记录器
type Logger struct {
	c     *core
	attrs []any
}

// 全局默认 logger
var defaultLogger = New()

// New 创建新的 Logger 实例
func New() *Logger {
	c := &core{
		level:      INFO,
		enabled:    true,
		console:    true,
		consoleOut: os.Stdout,
	}
	c.updateOutput()
	return &Logger{c: c}
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// With 返回附带字段的子 Logger，与父 Logger 共享输出配置
func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{c: l.c, attrs: attrs}
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.level = level
}

// SetEnabled 设置是否启用日志
func (l *Logger) SetEnabled(enabled bool) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.enabled = enabled
}

// SetConsole 设置是否输出到控制台
func (l *Logger) SetConsole(enabled bool) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.console = enabled
	l.c.updateOutput()
}

// SetOutput 替换控制台输出目标（关闭颜色），主要用于测试
func (l *Logger) SetOutput(w io.Writer) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.consoleOut = w
	l.c.noColor = true
	l.c.updateOutput()
}

// SetFile 设置是否输出到文件
func (l *Logger) SetFile(enabled bool, path string) error {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	// 关闭旧文件
	if l.c.fileOut != nil {
		l.c.fileOut.Close()
		l.c.fileOut = nil
	}

	l.c.file = enabled
	l.c.filePath = path

	if enabled && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.c.updateOutput()
			return fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.c.fileOut = f
	}

	l.c.updateOutput()
	return nil
}

func (c *core) updateOutput() {
	var handlers []slog.Handler

	if c.console && c.consoleOut != nil {
		handlers = append(handlers, tint.NewHandler(c.consoleOut, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05",
			NoColor:    c.noColor,
		}))
	}
	if c.file && c.fileOut != nil {
		handlers = append(handlers, slog.NewJSONHandler(c.fileOut, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	switch len(handlers) {
	case 0:
		c.out = slog.New(slog.NewTextHandler(io.Discard, nil))
	case 1:
		c.out = slog.New(handlers[0])
	default:
		c.out = slog.New(fanout(handlers))
	}
}

// log 内部日志方法
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	if !l.c.enabled || level < l.c.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.c.out.Log(context.Background(), level.slog(), msg, l.attrs...)
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录带分类的事件日志
// category: MTCH (图像定位)、MOVE (指针动画)、SCRL (滚动动画)
func (l *Logger) LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	status := "OK"
	if !ok {
		status = "NG"
	}

	if ok {
		l.Info("%-4s | %s | %6.1fms | %s", category, status, elapsedMs, detail)
	} else {
		l.Error("%-4s | %s | %6.1fms | %s", category, status, elapsedMs, detail)
	}
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	if l.c.fileOut != nil {
		err := l.c.fileOut.Close()
		l.c.fileOut = nil
		l.c.updateOutput()
		return err
	}
	return nil
}

// fanout 将同一条记录分发给多个 handler
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// 包级别便捷函数
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
func With(args ...any) *Logger                 { return defaultLogger.With(args...) }
func LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	defaultLogger.LogEvent(category, ok, elapsedMs, detail)
}
