package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/model"
	"github.com/dengyintao/ProcessExcelData/internal/service/processor"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func field(label, value string) string {
	return styleLabel.Render(fmt.Sprintf("%-6s", label)) + " " + value
}

func renderReport(w io.Writer, r *processor.Report) {
	res := r.Result
	lines := []string{
		styleOK.Render("数据处理完成"),
		field("原始数据", fmt.Sprintf("%d 条", res.OriginalCount)),
		field("匹配数据", fmt.Sprintf("%d 条", res.MatchedCount)),
		field("过滤掉", fmt.Sprintf("%d 条", res.FilteredOutCount)),
		field("输出文件", r.Output),
		field("备份", r.Backup1),
		field("", r.Backup2),
	}
	fmt.Fprintln(w, styleBox.Render(strings.Join(lines, "\n")))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, styleError.Render(apperr.Message(err)))
}

func renderColumns(w io.Writer, title string, cols []string, selected string) {
	fmt.Fprintln(w, styleTitle.Render(title))
	if len(cols) == 0 {
		fmt.Fprintln(w, styleLabel.Render("  （无表头）"))
		return
	}
	for i, c := range cols {
		mark := " "
		if selected != "" && c == selected {
			mark = styleMark.Render("*")
		}
		name := c
		if name == "" {
			name = styleLabel.Render("（空列名）")
		}
		fmt.Fprintf(w, "%s %2d. %s\n", mark, i+1, name)
	}
}

func renderConfig(w io.Writer, cfg model.Configuration, path string) {
	lines := []string{
		styleTitle.Render("当前配置") + " " + styleLabel.Render(path),
		field("源文件1", cfg.SourceFile1),
		field("源文件2", cfg.SourceFile2),
		field("输出文件", cfg.OutputFile),
		field("匹配字段1", cfg.MatchField1),
		field("匹配字段2", cfg.MatchField2),
		field("匹配类型", cfg.MatchType.Label()),
	}
	fmt.Fprintln(w, styleBox.Render(strings.Join(lines, "\n")))
}

func renderRuns(w io.Writer, runs []model.ProcessRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, styleLabel.Render("暂无处理记录"))
		return
	}
	for _, r := range runs {
		status := styleOK.Render(string(r.Status))
		if r.Status == model.RunStatusFailed {
			status = styleError.Render(string(r.Status))
		}
		fmt.Fprintf(w, "%s  %s  %s\n", r.StartedAt.Format(model.LogTimeLayout), status, styleLabel.Render(r.ID))
		fmt.Fprintf(w, "    %s + %s -> %s\n", r.SourceFile1, r.SourceFile2, r.OutputFile)
		if r.Status == model.RunStatusFailed {
			fmt.Fprintf(w, "    %s\n", r.ErrorMessage)
			continue
		}
		fmt.Fprintf(w, "    原始 %d 条，匹配 %d 条，过滤 %d 条\n", r.OriginalCount, r.MatchedCount, r.FilteredOutCount)
	}
}
