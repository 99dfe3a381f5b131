package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoeyai/zoeyauto/internal/logger"
	"github.com/zoeyai/zoeyauto/pkg/auto/screen"
	"github.com/zoeyai/zoeyauto/pkg/config"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// cliFlags 命令行参数，零值表示沿用配置文件
type cliFlags struct {
	configPath     string
	confidence     float64
	confidenceSet  bool
	exact          bool
	gray           bool
	region         string
	grid           string
	maxResults     int
	noRegistration bool
	debugOut       string

	durationMs int
	curve      string
	fps        float64
	click      bool
	horizontal bool
	dryRun     bool

	logLevel string
	save     bool
}

func main() {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "配置文件 (.json/.yaml/.yml/.ini)，默认使用 ~/.zoeyauto/config.json")
	flag.Float64Var(&f.confidence, "confidence", 0, "匹配阈值 (0-1)")
	flag.BoolVar(&f.exact, "exact", false, "精确匹配 (confidence=1)")
	flag.BoolVar(&f.gray, "gray", false, "灰度匹配")
	flag.StringVar(&f.region, "region", "", "搜索区域 x,y,w,h")
	flag.StringVar(&f.grid, "grid", "", "只在区域的某个网格中搜索 rows.cols.row.col (如 2.2.1.1)")
	flag.IntVar(&f.maxResults, "max", 0, "locate-all 最多返回的结果数")
	flag.BoolVar(&f.noRegistration, "no-registration", false, "禁用相位相关配准，只使用穷举匹配")
	flag.StringVar(&f.debugOut, "debug", "", "将标注后的截图保存到指定 PNG 文件")
	flag.IntVar(&f.durationMs, "duration", -1, "动画时长（毫秒）")
	flag.StringVar(&f.curve, "curve", "", "缓动曲线名称")
	flag.Float64Var(&f.fps, "fps", 0, "动画帧率")
	flag.BoolVar(&f.click, "click", false, "move 完成后点击")
	flag.BoolVar(&f.horizontal, "horizontal", false, "scroll 使用水平方向")
	flag.BoolVar(&f.dryRun, "dry-run", false, "只打印动画帧，不产生实际输入")
	flag.StringVar(&f.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	flag.BoolVar(&f.save, "save", false, "保存当前配置到本地")
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")

	flag.Usage = printHelp
	flag.Parse()
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "confidence" {
			f.confidenceSet = true
		}
	})

	// 显示版本
	if *showVersion {
		printVersion()
		return
	}

	// 显示帮助
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		return
	}

	settings, err := loadSettings(&f)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	if err := setupLogger(settings.Log); err != nil {
		fmt.Printf("[WARN] %v\n", err)
	}
	defer logger.Default().Close()

	if f.save {
		manager := config.NewManager()
		if err := manager.Save(settings); err != nil {
			fmt.Printf("[WARN] 保存配置失败: %v\n", err)
		} else {
			fmt.Printf("[INFO] 配置已保存到 %s\n", manager.GetConfigFile())
		}
	}

	// Ctrl+C 在帧之间中止动画
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(settings, &f)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	if err := app.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// loadSettings 加载配置，命令行参数优先级高于配置文件
func loadSettings(f *cliFlags) (*config.Settings, error) {
	var (
		s   *config.Settings
		err error
	)
	if f.configPath != "" {
		s, err = config.LoadFile(f.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		s, err = config.NewManager().Load()
		if err != nil {
			fmt.Printf("[WARN] 加载配置失败: %v\n", err)
		}
	}

	if f.confidenceSet {
		s.Match.Confidence = f.confidence
	}
	if f.exact {
		s.Match.Confidence = 1
	}
	if f.gray {
		s.Match.Grayscale = true
	}
	if f.maxResults > 0 {
		s.Match.MaxResults = f.maxResults
	}
	if f.noRegistration {
		s.Match.UseRegistration = false
	}
	if f.durationMs >= 0 {
		s.Motion.DurationMs = f.durationMs
	}
	if f.curve != "" {
		s.Motion.Curve = f.curve
	}
	if f.fps > 0 {
		s.Motion.FrameRate = f.fps
	}
	if f.logLevel != "" {
		s.Log.Level = f.logLevel
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// setupLogger 按配置设置默认 logger
func setupLogger(s config.LogSettings) error {
	l := logger.Default()
	l.SetLevel(logger.ParseLevel(s.Level))
	l.SetConsole(s.Console)
	if s.File {
		if err := l.SetFile(true, s.Path); err != nil {
			return fmt.Errorf("启用文件日志失败: %w", err)
		}
	}
	return nil
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("ZoeyAuto v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Displays: %d\n", screen.GetDisplayCount())
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("ZoeyAuto - 屏幕图像定位与缓动输入工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  zoeyauto [选项] <命令> [参数]")
	fmt.Println()
	fmt.Println("命令:")
	fmt.Println("  locate <图片>        查找图片，输出 x y w h")
	fmt.Println("  locate-all <图片>    查找图片的所有位置")
	fmt.Println("  center <图片>        查找图片并输出中心点")
	fmt.Println("  move <x> <y>         缓动移动指针到指定坐标")
	fmt.Println("  move <图片>          缓动移动指针到图片中心")
	fmt.Println("  scroll <格数>        缓动滚动")
	fmt.Println("  curves [t]           列出缓动曲线，给定 t 时输出各曲线在 t 处的进度")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 在屏幕左上角区域查找按钮")
	fmt.Println("  zoeyauto -region 0,0,800,600 locate button.png")
	fmt.Println()
	fmt.Println("  # 只在屏幕右下四分之一查找")
	fmt.Println("  zoeyauto -grid 2.2.2.2 locate icon.png")
	fmt.Println()
	fmt.Println("  # 用 easeInOutCubic 在 500ms 内移动到按钮中心并点击")
	fmt.Println("  zoeyauto -curve easeInOutCubic -duration 500 -click move button.png")
	fmt.Println()
	fmt.Println("  # 预览滚动帧")
	fmt.Println("  zoeyauto -dry-run -duration 300 scroll -10")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", config.NewManager().GetConfigFile())
}
