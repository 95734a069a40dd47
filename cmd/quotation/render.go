package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arismemo/quotation/internal/actions"
	"github.com/arismemo/quotation/internal/prettify"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func printYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("unable to render output: %w", err)
	}
	return encoder.Close()
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// renderRows pads every column to its widest cell.
func renderRows(out io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = lipgloss.Width(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				padded = style.Render(padded)
			}
			parts[i] = padded
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(out, line(header, &headerStyle)) //nolint:errcheck
	for _, row := range rows {
		fmt.Fprintln(out, line(row, nil)) //nolint:errcheck
	}
}

func renderHistory(out io.Writer, items []actions.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("暂无历史记录")) //nolint:errcheck
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		star := ""
		if item.IsFavorited {
			star = starStyle.Render("★")
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			prettify.Date(item.ComputedAt.Time, prettify.DefaultDateFormat),
			item.WorkerType,
			formatPrice(item.UnitPrice),
			formatPrice(item.TotalPrice),
			star,
		})
	}
	renderRows(out, []string{"ID", "时间", "工人类型", "单价", "总价", ""}, rows)
}

func renderFavorites(out io.Writer, favorites []actions.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("暂无收藏")) //nolint:errcheck
		return
	}

	rows := make([][]string, 0, len(favorites))
	for _, favorite := range favorites {
		image := ""
		if favorite.ImagePath != nil {
			image = *favorite.ImagePath
		}
		rows = append(rows, []string{
			strconv.FormatInt(favorite.ID, 10),
			favorite.DisplayName(),
			strconv.FormatInt(favorite.HistoryID, 10),
			formatPrice(favorite.History.TotalPrice),
			prettify.Date(favorite.CreatedAt.Time, prettify.DefaultDateFormat),
			image,
		})
	}
	renderRows(out, []string{"ID", "名称", "历史ID", "总价", "收藏时间", "图片"}, rows)
}
