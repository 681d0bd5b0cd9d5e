package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// Названия листов книги.
const (
	sheetSummary   = "Summary"
	sheetMembers   = "Participants"
	sheetWords     = "Words"
	sheetReactions = "Reactions"
	sheetSymbols   = "Reactions by symbol"
	sheetDaily     = "Daily"
	sheetHourly    = "Hourly"
	sheetProfiles  = "Profiles"
)

// ExcelExporter записывает статистику в книгу xlsx, по листу на каждую статистику.
type ExcelExporter struct {
	out io.Writer
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(out io.Writer) ports.Exporter {
	return &ExcelExporter{out: out}
}

// Export строит книгу и пишет ее в out.
func (e *ExcelExporter) Export(result *domain.AggregateResult) error {
	if result == nil {
		return fmt.Errorf("нет данных для вывода")
	}
	if e.out == nil {
		return fmt.Errorf("не задан получатель xlsx")
	}

	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(e.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook создает книгу с листами статистики. Вызывающий закрывает книгу.
func BuildWorkbook(result *domain.AggregateResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	sheets := []struct {
		name    string
		headers []interface{}
		rows    [][]interface{}
	}{
		{sheetSummary, []interface{}{"Metric", "Value"}, summaryRows(result)},
		{sheetMembers, []interface{}{"Name", "Messages"}, countRows(result.Participants)},
		{sheetWords, []interface{}{"Word", "Count"}, wordRows(result.TopWords)},
		{sheetReactions, []interface{}{"Name", "Received", "Given"}, reactionRows(result)},
		{sheetSymbols, []interface{}{"Reaction", "Direction", "Name", "Count"}, symbolRows(result.ReactionsBySymbol)},
		{sheetDaily, []interface{}{"Date", "Messages"}, dailyRows(result.Daily)},
		{sheetHourly, hourlyHeaders(result.Participants), hourlyRows(result.Hourly, result.Participants)},
		{sheetProfiles, []interface{}{"Name", "Messages", "Words", "Shouted", "Shouting %", "Reactions sent", "Reactions received", "Received share"}, profileRows(result.Profiles)},
	}

	for _, sheet := range sheets {
		if sheet.name != sheetSummary {
			if _, err := f.NewSheet(sheet.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
			}
		}
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func summaryRows(r *domain.AggregateResult) [][]interface{} {
	rows := [][]interface{}{
		{"Chat", r.Title},
		{"Messages", r.TotalMessages},
		{"Words", r.TotalWords},
		{"Reactions", r.TotalReactions},
		{"Days", r.SpanDays},
		{"Average per day", r.AverageMessagesPerDay},
		{"First message", r.FirstMessageAt},
		{"Last message", r.LastMessageAt},
		{"Timezone", r.Timezone},
		{"Longest streak (days)", r.LongestStreak.Days},
		{"Skipped records", r.Report.Skipped},
		{"Filtered records", r.Report.Filtered},
	}
	for _, k := range r.MessageKinds {
		rows = append(rows, []interface{}{"Kind: " + string(k.Kind), k.Count})
	}
	return rows
}

func countRows(counts []domain.ParticipantCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{c.Name, c.Count})
	}
	return rows
}

func wordRows(words []domain.WordCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(words))
	for _, w := range words {
		rows = append(rows, []interface{}{w.Word, w.Count})
	}
	return rows
}

// reactionRows объединяет полученные и отправленные реакции в одну таблицу
// в порядке рейтинга полученных.
func reactionRows(r *domain.AggregateResult) [][]interface{} {
	given := make(map[string]int, len(r.ReactionsGiven))
	for _, c := range r.ReactionsGiven {
		given[c.Name] = c.Count
	}

	seen := make(map[string]bool)
	var rows [][]interface{}
	for _, c := range r.ReactionsReceived {
		seen[c.Name] = true
		rows = append(rows, []interface{}{c.Name, c.Count, given[c.Name]})
	}
	for _, c := range r.ReactionsGiven {
		if !seen[c.Name] {
			rows = append(rows, []interface{}{c.Name, 0, c.Count})
		}
	}
	return rows
}

func dailyRows(days []domain.DailyActivity) [][]interface{} {
	rows := make([][]interface{}, 0, len(days))
	for _, d := range days {
		rows = append(rows, []interface{}{d.Date, d.Count})
	}
	return rows
}

// symbolRows разворачивает разбивку по символам в плоскую таблицу.
func symbolRows(breakdown []domain.SymbolBreakdown) [][]interface{} {
	var rows [][]interface{}
	for _, b := range breakdown {
		for _, c := range b.ReceivedBy {
			rows = append(rows, []interface{}{b.Symbol, "received", c.Name, c.Count})
		}
		for _, c := range b.GivenBy {
			rows = append(rows, []interface{}{b.Symbol, "given", c.Name, c.Count})
		}
	}
	return rows
}

// hourlyHeaders добавляет по столбцу на каждого участника в порядке рейтинга.
func hourlyHeaders(participants []domain.ParticipantCount) []interface{} {
	headers := []interface{}{"Hour", "Messages"}
	for _, p := range participants {
		headers = append(headers, p.Name)
	}
	return headers
}

func hourlyRows(hours []domain.HourlyActivity, participants []domain.ParticipantCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(hours))
	for _, h := range hours {
		perSender := make(map[string]int, len(h.BySender))
		for _, c := range h.BySender {
			perSender[c.Name] = c.Count
		}
		row := []interface{}{h.Hour, h.Count}
		for _, p := range participants {
			row = append(row, perSender[p.Name])
		}
		rows = append(rows, row)
	}
	return rows
}

func profileRows(profiles []domain.ParticipantProfile) [][]interface{} {
	rows := make([][]interface{}, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []interface{}{
			p.Name, p.MessagesSent, p.WordsSent, p.WordsShouted,
			p.ShoutingPercentage, p.ReactionsSent, p.ReactionsReceived, p.ReceivedShare,
		})
	}
	return rows
}
