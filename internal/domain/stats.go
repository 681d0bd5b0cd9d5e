package domain

import (
	"maps"
	"slices"
)

// Причины, по которым запись не попала в итоговую последовательность.
const (
	SkipInvalidRecord    = "invalid_record"
	SkipMissingTimestamp = "missing_timestamp"
	SkipInvalidTimestamp = "invalid_timestamp"
	SkipMissingSender    = "missing_sender"
	SkipInvalidSender    = "invalid_sender"
	SkipInvalidContent   = "invalid_content"
	FilterReactionNotice = "reaction_notice"
)

// NormalizationReport содержит итоги нормализации.
// Skipped - битые записи, Filtered - корректные служебные записи, исключенные намеренно.
type NormalizationReport struct {
	Input            int            `json:"input"`
	Kept             int            `json:"kept"`
	Skipped          int            `json:"skipped"`
	Filtered         int            `json:"filtered"`
	DroppedReactions int            `json:"dropped_reactions"`
	Reasons          map[string]int `json:"reasons,omitempty"`
}

// ParticipantCount - строка рейтинга участников.
type ParticipantCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WordCount - частота слова.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SymbolCount - частота символа реакции.
type SymbolCount struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

// SymbolBreakdown - распределение одного символа реакции по участникам:
// кто получал реакцию и кто ее ставил.
type SymbolBreakdown struct {
	Symbol     string             `json:"symbol"`
	Count      int                `json:"count"`
	ReceivedBy []ParticipantCount `json:"received_by"`
	GivenBy    []ParticipantCount `json:"given_by"`
}

// DailyActivity - количество сообщений за календарный день.
type DailyActivity struct {
	Date     string             `json:"date"` // YYYY-MM-DD
	Count    int                `json:"count"`
	BySender []ParticipantCount `json:"by_sender,omitempty"`
}

// HourlyActivity - количество сообщений за час суток по всем дням.
type HourlyActivity struct {
	Hour     int                `json:"hour"` // 0-23
	Count    int                `json:"count"`
	BySender []ParticipantCount `json:"by_sender,omitempty"`
}

// Streak - самая длинная серия дней подряд с сообщениями.
type Streak struct {
	Days  int    `json:"days"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParticipantProfile - сводка по одному участнику.
type ParticipantProfile struct {
	Name               string  `json:"name"`
	MessagesSent       int     `json:"messages_sent"`
	WordsSent          int     `json:"words_sent"`
	WordsShouted       int     `json:"words_shouted"`
	ShoutingPercentage float64 `json:"shouting_percentage"`
	ReactionsSent      int     `json:"reactions_sent"`
	ReactionsReceived  int     `json:"reactions_received"`
	ReceivedShare      float64 `json:"received_share"`
}

// Statistics - сырые результаты движка агрегации до упаковки.
type Statistics struct {
	Timezone          string
	TotalMessages     int
	TotalWords        int
	TotalReactions    int
	SpanDays          int
	FirstMessageAt    string
	LastMessageAt     string
	KindCounts        map[MessageKind]int
	Participants      []ParticipantCount
	TopWords          []WordCount
	ReactionsReceived []ParticipantCount
	ReactionsGiven    []ParticipantCount
	TopReactions      []SymbolCount
	ReactionsBySymbol []SymbolBreakdown
	Daily             []DailyActivity
	Hourly            []HourlyActivity
	Streak            Streak
	Profiles          []ParticipantProfile
}

// KindCount - количество сообщений одного вида.
type KindCount struct {
	Kind  MessageKind `json:"kind"`
	Count int         `json:"count"`
}

// AggregateResult - итоговая структура для слоя представления.
// Все коллекции - срезы с фиксированным порядком, поэтому сериализация детерминирована.
type AggregateResult struct {
	ChatID                string               `json:"chat_id"`
	Title                 string               `json:"title"`
	Timezone              string               `json:"timezone"`
	TotalMessages         int                  `json:"total_messages"`
	TotalWords            int                  `json:"total_words"`
	TotalReactions        int                  `json:"total_reactions"`
	SpanDays              int                  `json:"span_days"`
	FirstMessageAt        string               `json:"first_message_at"`
	LastMessageAt         string               `json:"last_message_at"`
	AverageMessagesPerDay float64              `json:"average_messages_per_day"`
	MessageKinds          []KindCount          `json:"message_kinds"`
	Participants          []ParticipantCount   `json:"participants"`
	TopWords              []WordCount          `json:"top_words"`
	ReactionsReceived     []ParticipantCount   `json:"reactions_received"`
	ReactionsGiven        []ParticipantCount   `json:"reactions_given"`
	TopReactions          []SymbolCount        `json:"top_reactions"`
	ReactionsBySymbol     []SymbolBreakdown    `json:"reactions_by_symbol"`
	Daily                 []DailyActivity      `json:"daily"`
	Hourly                []HourlyActivity     `json:"hourly"`
	LongestStreak         Streak               `json:"longest_streak"`
	Profiles              []ParticipantProfile `json:"profiles"`
	Report                NormalizationReport  `json:"report"`
}

// Clone возвращает копию результата, не разделяющую с исходным ни одного среза или карты.
func (r *AggregateResult) Clone() *AggregateResult {
	if r == nil {
		return nil
	}
	c := *r
	c.MessageKinds = slices.Clone(r.MessageKinds)
	c.Participants = slices.Clone(r.Participants)
	c.TopWords = slices.Clone(r.TopWords)
	c.ReactionsReceived = slices.Clone(r.ReactionsReceived)
	c.ReactionsGiven = slices.Clone(r.ReactionsGiven)
	c.TopReactions = slices.Clone(r.TopReactions)
	c.ReactionsBySymbol = slices.Clone(r.ReactionsBySymbol)
	for i := range c.ReactionsBySymbol {
		c.ReactionsBySymbol[i].ReceivedBy = slices.Clone(c.ReactionsBySymbol[i].ReceivedBy)
		c.ReactionsBySymbol[i].GivenBy = slices.Clone(c.ReactionsBySymbol[i].GivenBy)
	}
	c.Daily = slices.Clone(r.Daily)
	for i := range c.Daily {
		c.Daily[i].BySender = slices.Clone(c.Daily[i].BySender)
	}
	c.Hourly = slices.Clone(r.Hourly)
	for i := range c.Hourly {
		c.Hourly[i].BySender = slices.Clone(c.Hourly[i].BySender)
	}
	c.Profiles = slices.Clone(r.Profiles)
	c.Report.Reasons = maps.Clone(r.Report.Reasons)
	return &c
}
