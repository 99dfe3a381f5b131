// Package grid 把屏幕区域划分为网格，用于把搜索范围缩小到某个格子
package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoeyai/zoeyauto/pkg/auto"
)

// Position 网格位置
type Position struct {
	Rows int `json:"rows"` // 总行数
	Cols int `json:"cols"` // 总列数
	Row  int `json:"row"`  // 目标行 (1-based)
	Col  int `json:"col"`  // 目标列 (1-based)
}

// Parse 解析网格位置字符串
// 格式: rows.cols.row.col (如 "2.2.1.1" 表示 2x2 网格的第1行第1列)
func Parse(s string) (*Position, error) {
	if s == "" {
		return nil, fmt.Errorf("网格位置字符串为空")
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("无效的网格位置格式: %s (期望格式: rows.cols.row.col)", s)
	}

	var v [4]int
	names := [4]string{"行数", "列数", "目标行", "目标列"}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("无效的%s: %s", names[i], p)
		}
		v[i] = n
	}

	pos := &Position{Rows: v[0], Cols: v[1], Row: v[2], Col: v[3]}
	if err := pos.validate(); err != nil {
		return nil, err
	}
	return pos, nil
}

func (p Position) validate() error {
	if p.Rows < 1 || p.Cols < 1 {
		return fmt.Errorf("行数和列数必须大于 0: rows=%d, cols=%d", p.Rows, p.Cols)
	}
	if p.Row < 1 || p.Col < 1 {
		return fmt.Errorf("目标行和目标列必须大于 0: row=%d, col=%d", p.Row, p.Col)
	}
	if p.Row > p.Rows || p.Col > p.Cols {
		return fmt.Errorf("目标位置超出范围: row=%d > rows=%d 或 col=%d > cols=%d", p.Row, p.Rows, p.Col, p.Cols)
	}
	return nil
}

// String 格式化为 rows.cols.row.col
func (p Position) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", p.Rows, p.Cols, p.Row, p.Col)
}

// Cell 返回 rect 中该格子的区域
// 格子边界取整到像素，相邻格子首尾相接，最后一行/列吸收余数
func (p Position) Cell(rect auto.Region) auto.Region {
	x0 := rect.X + rect.Width*(p.Col-1)/p.Cols
	x1 := rect.X + rect.Width*p.Col/p.Cols
	y0 := rect.Y + rect.Height*(p.Row-1)/p.Rows
	y1 := rect.Y + rect.Height*p.Row/p.Rows
	return auto.Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Center 返回格子中心点
func (p Position) Center(rect auto.Region) auto.Point {
	c := p.Cell(rect)
	return auto.Rect(c).Center()
}
