package exporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// hourlyBarWidth - длина самой длинной полосы в графике по часам.
const hourlyBarWidth = 30

// ConsoleExporter реализует интерфейс Exporter для вывода статистики в консоль.
type ConsoleExporter struct {
	out io.Writer
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
// Если out равен nil, вывод идет в stdout.
func NewConsoleExporter(out io.Writer) ports.Exporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleExporter{out: out}
}

// Export выводит статистику чата набором текстовых таблиц.
func (e *ConsoleExporter) Export(result *domain.AggregateResult) error {
	if result == nil {
		return fmt.Errorf("нет данных для вывода")
	}
	w := e.out

	fmt.Fprintf(w, "=== %s ===\n", result.Title)
	summary := newTable("Summary", "Metric", "Value")
	summary.add("Messages", strconv.Itoa(result.TotalMessages))
	summary.add("Words", strconv.Itoa(result.TotalWords))
	summary.add("Reactions", strconv.Itoa(result.TotalReactions))
	summary.add("Days", strconv.Itoa(result.SpanDays))
	summary.add("Average per day", strconv.FormatFloat(result.AverageMessagesPerDay, 'f', -1, 64))
	summary.add("First message", result.FirstMessageAt)
	summary.add("Last message", result.LastMessageAt)
	summary.add("Timezone", result.Timezone)
	if result.LongestStreak.Days > 0 {
		summary.add("Longest streak", fmt.Sprintf("%d days (%s - %s)",
			result.LongestStreak.Days, result.LongestStreak.Start, result.LongestStreak.End))
	}
	for _, k := range result.MessageKinds {
		summary.add("Kind: "+string(k.Kind), strconv.Itoa(k.Count))
	}
	summary.render(w)

	countTable("Messages per participant", "Name", result.Participants).render(w)

	words := newTable("Top words", "#", "Word", "Count")
	for i, wc := range result.TopWords {
		words.add(strconv.Itoa(i+1), wc.Word, strconv.Itoa(wc.Count))
	}
	words.render(w)

	countTable("Reactions received", "Name", result.ReactionsReceived).render(w)
	countTable("Reactions given", "Name", result.ReactionsGiven).render(w)

	symbols := newTable("Top reactions", "Reaction", "Count")
	for _, sc := range result.TopReactions {
		symbols.add(sc.Symbol, strconv.Itoa(sc.Count))
	}
	symbols.render(w)

	bySymbol := newTable("Reactions by symbol", "Reaction", "Count", "Received by", "Given by")
	for _, b := range result.ReactionsBySymbol {
		bySymbol.add(b.Symbol, strconv.Itoa(b.Count), joinCounts(b.ReceivedBy), joinCounts(b.GivenBy))
	}
	bySymbol.render(w)

	profiles := newTable("Participant profiles", "Name", "Messages", "Words", "Shouted", "Shouting %", "Sent", "Received", "Received share")
	for _, p := range result.Profiles {
		profiles.add(p.Name,
			strconv.Itoa(p.MessagesSent),
			strconv.Itoa(p.WordsSent),
			strconv.Itoa(p.WordsShouted),
			strconv.FormatFloat(p.ShoutingPercentage, 'f', 2, 64),
			strconv.Itoa(p.ReactionsSent),
			strconv.Itoa(p.ReactionsReceived),
			strconv.FormatFloat(p.ReceivedShare, 'f', 2, 64),
		)
	}
	profiles.render(w)

	maxHourly := 0
	for _, h := range result.Hourly {
		maxHourly = max(maxHourly, h.Count)
	}
	hourly := newTable("Activity by hour", "Hour", "Count", "", "By sender")
	for _, h := range result.Hourly {
		hourly.add(fmt.Sprintf("%02d", h.Hour), strconv.Itoa(h.Count), bar(h.Count, maxHourly, hourlyBarWidth), joinCounts(h.BySender))
	}
	hourly.render(w)

	busiest := append([]domain.DailyActivity(nil), result.Daily...)
	sort.SliceStable(busiest, func(i, j int) bool { return busiest[i].Count > busiest[j].Count })
	if len(busiest) > 10 {
		busiest = busiest[:10]
	}
	days := newTable("Busiest days", "Date", "Count")
	for _, d := range busiest {
		if d.Count > 0 {
			days.add(d.Date, strconv.Itoa(d.Count))
		}
	}
	days.render(w)

	if notice := SkippedNotice(result.Report); notice != "" {
		fmt.Fprintln(w, notice)
	}
	return nil
}

func countTable(title, column string, counts []domain.ParticipantCount) *table {
	t := newTable(title, column, "Count")
	for _, c := range counts {
		t.add(c.Name, strconv.Itoa(c.Count))
	}
	return t
}

// joinCounts форматирует рейтинг в одну ячейку: "Alice 3, Bob 2".
func joinCounts(counts []domain.ParticipantCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = c.Name + " " + strconv.Itoa(c.Count)
	}
	return strings.Join(parts, ", ")
}

// SkippedNotice возвращает уведомление о записях, не вошедших в статистику,
// или пустую строку, если пропусков не было.
func SkippedNotice(report domain.NormalizationReport) string {
	if report.Skipped == 0 && report.Filtered == 0 && report.DroppedReactions == 0 {
		return ""
	}
	return fmt.Sprintf("Примечание: пропущено записей: %d, отфильтровано служебных: %d, отброшено реакций: %d (из %d записей).",
		report.Skipped, report.Filtered, report.DroppedReactions, report.Input)
}
