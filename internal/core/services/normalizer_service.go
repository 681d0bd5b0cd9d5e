package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"messenger-chat-stats/internal/domain"
	"messenger-chat-stats/internal/pkg/mojibake"
	"messenger-chat-stats/internal/ports"
)

// reactionNoticeRegexp находит служебные записи старого формата экспорта,
// в которых реакция оформлена отдельным сообщением.
var reactionNoticeRegexp = regexp.MustCompile(`(?i)reacted .* to your message`)

var (
	errFieldMissing = errors.New("field missing")
	errFieldType    = errors.New("unexpected field type")
	errFieldRange   = errors.New("field value out of range")
)

// NormalizationService приводит сырые записи к канонической схеме Message.
// Сервис не хранит состояние и безопасен для одновременного использования.
type NormalizationService struct {
	log *slog.Logger
}

// NewNormalizationService создает новый экземпляр NormalizationService.
func NewNormalizationService(logger *slog.Logger) *NormalizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NormalizationService{log: logger}
}

var _ ports.Normalizer = (*NormalizationService)(nil)

// Normalize проверяет каждую запись и возвращает сообщения в хронологическом порядке.
// Битые записи пропускаются и учитываются в отчете; если не осталось ни одной записи,
// возвращается EmptyChatError.
func (s *NormalizationService) Normalize(chat *domain.LoadedChat) ([]domain.Message, domain.NormalizationReport, error) {
	report := domain.NormalizationReport{
		Input:   len(chat.Messages),
		Reasons: make(map[string]int),
	}

	messages := make([]domain.Message, 0, len(chat.Messages))
	for _, raw := range chat.Messages {
		msg, reason, dropped := normalizeMessage(raw)
		report.DroppedReactions += dropped
		switch {
		case reason == domain.FilterReactionNotice:
			report.Filtered++
			report.Reasons[reason]++
		case reason != "":
			report.Skipped++
			report.Reasons[reason]++
		default:
			messages = append(messages, msg)
		}
	}

	// Части экспорта могут идти от новых к старым; стабильная сортировка
	// сохраняет исходный порядок записей с одинаковой меткой времени.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	report.Kept = len(messages)
	if len(report.Reasons) == 0 {
		report.Reasons = nil
	}

	if report.Kept == 0 {
		return nil, report, &domain.EmptyChatError{ChatID: chat.ChatID, Skipped: report.Skipped + report.Filtered}
	}

	if report.Skipped > 0 || report.DroppedReactions > 0 {
		s.log.Warn("Часть записей пропущена при нормализации",
			"chat_id", chat.ChatID,
			"skipped", report.Skipped,
			"dropped_reactions", report.DroppedReactions,
			"reasons", report.Reasons,
		)
	}

	return messages, report, nil
}

// normalizeMessage возвращает сообщение или причину пропуска.
// Третье значение - количество отброшенных реакций.
func normalizeMessage(raw domain.RawMessage) (domain.Message, string, int) {
	if raw.NotObject {
		return domain.Message{}, domain.SkipInvalidRecord, 0
	}

	ts, err := parseTimestamp(raw.TimestampMS)
	if errors.Is(err, errFieldMissing) {
		return domain.Message{}, domain.SkipMissingTimestamp, 0
	}
	if err != nil {
		return domain.Message{}, domain.SkipInvalidTimestamp, 0
	}

	sender, err := parseText(raw.SenderName)
	if errors.Is(err, errFieldMissing) {
		return domain.Message{}, domain.SkipMissingSender, 0
	}
	if err != nil {
		return domain.Message{}, domain.SkipInvalidSender, 0
	}
	sender = normalizeName(sender)
	if sender == "" {
		return domain.Message{}, domain.SkipMissingSender, 0
	}

	body, err := parseText(raw.Content)
	if err != nil && !errors.Is(err, errFieldMissing) {
		return domain.Message{}, domain.SkipInvalidContent, 0
	}
	body = mojibake.Fix(body)

	if reactionNoticeRegexp.MatchString(body) {
		return domain.Message{}, domain.FilterReactionNotice, 0
	}

	reactions, dropped := parseReactions(raw.Reactions)

	kind := domain.MessageKindOther
	switch {
	case raw.HasMedia():
		kind = domain.MessageKindMedia
	case strings.TrimSpace(body) != "":
		kind = domain.MessageKindText
	}

	return domain.Message{
		Sender:    sender,
		Timestamp: ts,
		Body:      body,
		Reactions: reactions,
		Kind:      kind,
	}, "", dropped
}

// Допустимый диапазон меток времени: от начала эпохи до 2100 года, не включая его.
var (
	minTimestampMS = int64(0)
	maxTimestampMS = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
)

// parseTimestamp принимает только числовое значение миллисекунд с начала эпохи
// в допустимом диапазоне.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}, errFieldMissing
	}
	if trimmed[0] == '"' {
		return time.Time{}, errFieldType
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return time.Time{}, errFieldType
	}

	ms, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f < float64(minTimestampMS) || f >= float64(maxTimestampMS) {
			return time.Time{}, errFieldRange
		}
		ms = int64(f)
	}
	if ms < minTimestampMS || ms >= maxTimestampMS {
		return time.Time{}, errFieldRange
	}
	return time.UnixMilli(ms).UTC(), nil
}

// parseText извлекает строковое поле; отсутствие поля и null не считаются ошибкой типа.
func parseText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errFieldMissing
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", errFieldType
	}
	return s, nil
}

// parseReactions разбирает список реакций. Реакции с пустым автором или символом
// отбрасываются по одной, сообщение при этом сохраняется.
func parseReactions(raw json.RawMessage) ([]domain.Reaction, int) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, 1
	}

	var (
		reactions []domain.Reaction
		dropped   int
	)
	for _, item := range items {
		var r domain.RawReaction
		if err := json.Unmarshal(item, &r); err != nil {
			dropped++
			continue
		}
		reactor := normalizeName(r.Actor)
		symbol := strings.TrimSpace(mojibake.Fix(r.Reaction))
		if reactor == "" || symbol == "" {
			dropped++
			continue
		}
		reactions = append(reactions, domain.Reaction{Reactor: reactor, Symbol: symbol})
	}
	return reactions, dropped
}

func normalizeName(name string) string {
	return strings.TrimSpace(mojibake.Fix(name))
}
