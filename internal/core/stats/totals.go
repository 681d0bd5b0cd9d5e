package stats

import (
	"strings"
	"time"

	"messenger-chat-stats/internal/domain"
)

// DateLayout - формат календарного дня во всех результатах.
const DateLayout = "2006-01-02"

// TotalsResult - общие счетчики чата.
type TotalsResult struct {
	Messages   int
	Words      int
	Reactions  int
	SpanDays   int
	First      time.Time
	Last       time.Time
	KindCounts map[domain.MessageKind]int
}

// Totals считает общее количество сообщений, слов и реакций, а также число
// календарных дней между первым и последним сообщением включительно.
func Totals(messages []domain.Message, loc *time.Location) (*TotalsResult, error) {
	if err := requireMessages("totals", messages); err != nil {
		return nil, err
	}

	res := &TotalsResult{
		Messages:   len(messages),
		First:      messages[0].Timestamp,
		Last:       messages[0].Timestamp,
		KindCounts: make(map[domain.MessageKind]int),
	}
	for _, msg := range messages {
		res.Words += len(strings.Fields(msg.Body))
		res.Reactions += len(msg.Reactions)
		res.KindCounts[msg.Kind]++
		if msg.Timestamp.Before(res.First) {
			res.First = msg.Timestamp
		}
		if msg.Timestamp.After(res.Last) {
			res.Last = msg.Timestamp
		}
	}

	res.SpanDays = SpanDays(res.First, res.Last, loc)
	return res, nil
}

// SpanDays возвращает количество календарных дней от first до last включительно
// в указанном часовом поясе. Для одного дня результат равен 1.
func SpanDays(first, last time.Time, loc *time.Location) int {
	a := dayNumber(first, loc)
	b := dayNumber(last, loc)
	if b < a {
		a, b = b, a
	}
	return int(b-a) + 1
}

// civilDay переносит календарную дату в UTC, чтобы разница дат не зависела от перехода на летнее время.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber - номер календарного дня от начала эпохи.
func dayNumber(t time.Time, loc *time.Location) int64 {
	return civilDay(t, loc).Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60
