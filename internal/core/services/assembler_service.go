package services

import (
	"github.com/shopspring/decimal"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/ports"
)

// DefaultAveragePrecision - число знаков после запятой для среднего в день.
const DefaultAveragePrecision = 1

// ratioPrecision - число знаков для процентов и долей.
const ratioPrecision = 2

// kindOrder фиксирует порядок видов сообщений в результате.
var kindOrder = []domain.MessageKind{
	domain.MessageKindText,
	domain.MessageKindMedia,
	domain.MessageKindOther,
}

// AssemblerService упаковывает результаты агрегации в AggregateResult.
// Собственных вычислений не выполняет, кроме округления.
type AssemblerService struct {
	averagePrecision int32
}

// NewAssemblerService создает новый экземпляр AssemblerService.
// Отрицательная точность заменяется значением по умолчанию.
func NewAssemblerService(averagePrecision int) *AssemblerService {
	if averagePrecision < 0 {
		averagePrecision = DefaultAveragePrecision
	}
	return &AssemblerService{averagePrecision: int32(averagePrecision)}
}

var _ ports.Assembler = (*AssemblerService)(nil)

// Assemble собирает итоговую структуру. Входные данные не изменяются.
func (s *AssemblerService) Assemble(chat *domain.LoadedChat, report domain.NormalizationReport, st *domain.Statistics) *domain.AggregateResult {
	result := &domain.AggregateResult{
		ChatID:                chat.ChatID,
		Title:                 chat.Title,
		Timezone:              st.Timezone,
		TotalMessages:         st.TotalMessages,
		TotalWords:            st.TotalWords,
		TotalReactions:        st.TotalReactions,
		SpanDays:              st.SpanDays,
		FirstMessageAt:        st.FirstMessageAt,
		LastMessageAt:         st.LastMessageAt,
		AverageMessagesPerDay: s.averagePerDay(st.TotalMessages, st.SpanDays),
		Participants:          nonNil(st.Participants),
		TopWords:              nonNil(st.TopWords),
		ReactionsReceived:     nonNil(st.ReactionsReceived),
		ReactionsGiven:        nonNil(st.ReactionsGiven),
		TopReactions:          nonNil(st.TopReactions),
		ReactionsBySymbol:     nonNil(st.ReactionsBySymbol),
		Daily:                 nonNil(st.Daily),
		Hourly:                nonNil(st.Hourly),
		LongestStreak:         st.Streak,
		Report:                report,
	}

	for _, kind := range kindOrder {
		result.MessageKinds = append(result.MessageKinds, domain.KindCount{Kind: kind, Count: st.KindCounts[kind]})
	}

	result.Profiles = make([]domain.ParticipantProfile, len(st.Profiles))
	for i, p := range st.Profiles {
		p.ShoutingPercentage = roundFloat(p.ShoutingPercentage, ratioPrecision)
		p.ReceivedShare = roundFloat(p.ReceivedShare, ratioPrecision)
		result.Profiles[i] = p
	}

	return result
}

// averagePerDay делит общее число сообщений на число дней в диапазоне.
// Если диапазон нулевой, среднее равно общему числу.
func (s *AssemblerService) averagePerDay(total, spanDays int) float64 {
	avg := decimal.NewFromInt(int64(total))
	if spanDays > 0 {
		avg = avg.Div(decimal.NewFromInt(int64(spanDays)))
	}
	return avg.Round(s.averagePrecision).InexactFloat64()
}

func roundFloat(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// nonNil заменяет nil пустым срезом, чтобы в JSON всегда был массив.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
