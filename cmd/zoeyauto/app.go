package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zoeyai/zoeyauto/pkg/auto"
	"github.com/zoeyai/zoeyauto/pkg/auto/grid"
	"github.com/zoeyai/zoeyauto/pkg/auto/input"
	"github.com/zoeyai/zoeyauto/pkg/auto/screen"
	"github.com/zoeyai/zoeyauto/pkg/config"
	"github.com/zoeyai/zoeyauto/pkg/easing"
	"github.com/zoeyai/zoeyauto/pkg/motion"
	"github.com/zoeyai/zoeyauto/pkg/permissions"
	"github.com/zoeyai/zoeyauto/pkg/raster"
	"github.com/zoeyai/zoeyauto/pkg/vision/annotate"
	"github.com/zoeyai/zoeyauto/pkg/vision/cv"
	"github.com/zoeyai/zoeyauto/pkg/vision/match"
)

type app struct {
	settings *config.Settings
	flags    *cliFlags
	region   *auto.Region
	curve    easing.Curve
	duration time.Duration

	matcher *match.Matcher
	images  *raster.Store
	screen  *screen.Screen
	mouse   *input.Mouse
	auto    *auto.Automator
}

func newApp(s *config.Settings, f *cliFlags) (*app, error) {
	region, err := parseRegion(f.region)
	if err != nil {
		return nil, err
	}
	if f.grid != "" {
		region, err = gridRegion(f.grid, region)
		if err != nil {
			return nil, err
		}
	}
	curve, err := easing.ByName(s.Motion.Curve)
	if err != nil {
		return nil, err
	}

	var strategies []match.Strategy
	if s.Match.UseRegistration {
		strategies = append(strategies, match.NewRegistrationStrategy(cv.NewPhaseRegistrar()))
	}

	a := &app{
		settings: s,
		flags:    f,
		region:   region,
		curve:    curve,
		duration: time.Duration(s.Motion.DurationMs) * time.Millisecond,
		matcher:  match.New(strategies...),
		images:   raster.NewStore(s.Match.ImageDir),
		screen:   screen.New(),
		mouse:    input.New(),
	}

	cfg := auto.Config{
		Capturer: a.screen,
		Images:   a.images,
		Matcher:  a.matcher,
		Defaults: auto.Options{
			Confidence: matchConfidence(s.Match.Confidence),
			Region:     region,
			Grayscale:  s.Match.Grayscale,
			MaxResults: s.Match.MaxResults,
		},
		FrameRate:  s.Motion.FrameRate,
		Dispatcher: a.mouse,
		Position:   a.mouse,
	}
	if f.dryRun {
		p := &printer{}
		cfg.Dispatcher = p
		cfg.Position = p
		cfg.Clock = motion.NewManualClock(time.Now())
	}
	a.auto = auto.New(cfg)
	return a, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	if err := a.checkPermissions(cmd, args); err != nil {
		return err
	}

	switch cmd {
	case "locate":
		return a.locate(args)
	case "locate-all":
		return a.locateAll(args)
	case "center":
		return a.center(args)
	case "move":
		return a.move(ctx, args)
	case "scroll":
		return a.scroll(ctx, args)
	case "curves":
		return a.curves(args)
	default:
		return fmt.Errorf("未知命令: %s (使用 -help 查看帮助)", cmd)
	}
}

// checkPermissions 检查命令所需的系统权限，缺失时打开设置页面
func (a *app) checkPermissions(cmd string, args []string) error {
	var need permissions.Need
	switch cmd {
	case "locate", "locate-all", "center":
		need = permissions.NeedCapture
	case "move":
		need = permissions.NeedInput
		if len(args) == 1 {
			need |= permissions.NeedCapture
		}
	case "scroll":
		need = permissions.NeedInput
	}
	if a.flags.dryRun {
		need &^= permissions.NeedInput
	}
	if need == 0 {
		return nil
	}

	if err := permissions.Ensure(need); err != nil {
		permissions.OpenSettings(need)
		return err
	}
	return nil
}

func needArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s 需要 %d 个参数，实际 %d 个", cmd, n, len(args))
	}
	return nil
}

func (a *app) locate(args []string) error {
	if err := needArgs("locate", args, 1); err != nil {
		return err
	}
	rect, err := a.auto.LocateOnScreen(args[0])
	if err != nil {
		return err
	}
	if rect == nil {
		fmt.Println("[INFO] 未找到")
		return a.debug(args[0])
	}
	fmt.Printf("%d %d %d %d\n", rect.X, rect.Y, rect.Width, rect.Height)
	return a.debug(args[0])
}

func (a *app) locateAll(args []string) error {
	if err := needArgs("locate-all", args, 1); err != nil {
		return err
	}
	rects, err := a.auto.LocateAllOnScreen(args[0])
	if err != nil {
		return err
	}
	for _, r := range rects {
		fmt.Printf("%d %d %d %d\n", r.X, r.Y, r.Width, r.Height)
	}
	fmt.Printf("[INFO] 共 %d 个结果\n", len(rects))
	return a.debug(args[0])
}

func (a *app) center(args []string) error {
	if err := needArgs("center", args, 1); err != nil {
		return err
	}
	p, err := a.auto.LocateCenterOnScreen(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("[INFO] 未找到")
		return nil
	}
	fmt.Printf("%d %d\n", p.X, p.Y)
	return nil
}

func (a *app) move(ctx context.Context, args []string) error {
	switch len(args) {
	case 1:
		ok, err := a.auto.MoveToImage(ctx, args[0], a.duration, a.curve)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("[INFO] 未找到")
			return nil
		}
	case 2:
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("无效的 x: %s", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("无效的 y: %s", args[1])
		}
		if err := a.auto.MoveTo(ctx, x, y, a.duration, a.curve); err != nil {
			return err
		}
	default:
		return fmt.Errorf("move 需要 <x> <y> 或 <图片>")
	}

	if a.flags.click && !a.flags.dryRun {
		return a.mouse.Click("left", false)
	}
	return nil
}

func (a *app) scroll(ctx context.Context, args []string) error {
	if err := needArgs("scroll", args, 1); err != nil {
		return err
	}
	clicks, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("无效的格数: %s", args[0])
	}
	axis := motion.AxisVertical
	if a.flags.horizontal {
		axis = motion.AxisHorizontal
	}
	return a.auto.ScrollBy(ctx, axis, clicks, a.duration, a.curve)
}

func (a *app) curves(args []string) error {
	if len(args) == 0 {
		for _, name := range easing.Names() {
			fmt.Println(name)
		}
		return nil
	}
	t, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("无效的 t: %s", args[0])
	}
	for _, c := range easing.Named() {
		fmt.Printf("%-18s %.6f\n", c.Name(), c.Progress(t))
	}
	return nil
}

// debug 重新截图并保存标注后的匹配结果
func (a *app) debug(path string) error {
	if a.flags.debugOut == "" {
		return nil
	}
	needle, err := a.images.Load(path)
	if err != nil {
		return err
	}
	haystack, _, err := a.screen.Capture(a.region)
	if err != nil {
		return fmt.Errorf("%w: %w", auto.ErrCapture, err)
	}
	cands, err := a.matcher.MatchAll(needle, haystack, match.Options{
		Confidence: matchConfidence(a.settings.Match.Confidence),
		Grayscale:  a.settings.Match.Grayscale,
		MaxResults: a.settings.Match.MaxResults,
	})
	if err != nil {
		return err
	}
	out, err := annotate.Draw(haystack, cands)
	if err != nil {
		return err
	}
	if err := screen.SaveImage(a.flags.debugOut, out, "png"); err != nil {
		return err
	}
	// 输出路径可能与模板重名
	a.images.Forget()
	fmt.Printf("[INFO] 标注截图已保存到 %s\n", a.flags.debugOut)
	return nil
}

// matchConfidence 配置中的 0 是显式设置的阈值，转换为 match.AnyConfidence
func matchConfidence(c float64) float64 {
	if c == 0 {
		return match.AnyConfidence
	}
	return c
}

// parseRegion 解析 "x,y,w,h"
func parseRegion(s string) (*auto.Region, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("区域格式应为 x,y,w,h: %s", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("区域格式应为 x,y,w,h: %s", s)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return nil, fmt.Errorf("区域宽高必须大于 0: %s", s)
	}
	return &auto.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// gridRegion 把搜索区域缩小到网格中的一格，未指定区域时以主屏幕为准
func gridRegion(s string, base *auto.Region) (*auto.Region, error) {
	pos, err := grid.Parse(s)
	if err != nil {
		return nil, err
	}
	if base == nil {
		w, h := screen.GetScreenSize()
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("无法获取屏幕尺寸")
		}
		base = &auto.Region{Width: w, Height: h}
	}
	cell := pos.Cell(*base)
	return &cell, nil
}

// printer 演练模式的输入派发器，只打印帧
type printer struct {
	x, y int
}

func (p *printer) DispatchPointerDelta(dx, dy int) error {
	p.x += dx
	p.y += dy
	fmt.Printf("move %+d %+d -> (%d, %d)\n", dx, dy, p.x, p.y)
	return nil
}

func (p *printer) DispatchScrollDelta(axis motion.Axis, clicks int) error {
	fmt.Printf("scroll %s %+d\n", axis, clicks)
	return nil
}

func (p *printer) Position() (int, int) {
	return p.x, p.y
}
