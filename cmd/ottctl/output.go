package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func printTitle(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func percentCell(o core.Observation) string {
	if !o.HasValue() {
		return "–"
	}
	return strconv.FormatFloat(o.Percent.Float64, 'f', 1, 64) + "%"
}

func recordRows(records []core.Observation) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Year, r.GroupValue, r.ServiceName, percentCell(r)})
	}
	return rows
}

func printRecords(w io.Writer, records []core.Observation) {
	printTable(w, []string{"연도", "그룹", "OTT 서비스", "이용 비율"}, recordRows(records))
}

func printSummary(w io.Writer, summary []core.ServiceSummary) {
	rows := make([][]string, 0, len(summary))
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
	for _, s := range summary {
		if s.Groups == 0 {
			rows = append(rows, []string{s.Service, "0", "–", "–", "–", "–"})
			continue
		}
		rows = append(rows, []string{s.Service, strconv.Itoa(s.Groups), f(s.Mean), f(s.Median), f(s.Min), f(s.Max)})
	}
	printTable(w, []string{"OTT 서비스", "그룹 수", "평균", "중앙값", "최소", "최대"}, rows)
}

func printSection(w io.Writer, sec core.Section) {
	printTitle(w, sec.Title)
	if sec.Notice != nil {
		msg := sec.Notice.Message
		if sec.Notice.Code != "" {
			msg += " (" + sec.Notice.Code + ")"
		}
		fmt.Fprintln(w, warnStyle.Render(msg))
		fmt.Fprintln(w)
		return
	}
	printRecords(w, sec.Records)
	printSummary(w, sec.Summary)
	fmt.Fprintln(w)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "–"
	}
	return strings.Join(values, ", ")
}
