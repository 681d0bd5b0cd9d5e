package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-chat-stats/internal/domain"
)

func textMessage(sender string, ts time.Time, body string, reactions ...domain.Reaction) domain.Message {
	return domain.Message{Sender: sender, Timestamp: ts, Body: body, Reactions: reactions, Kind: domain.MessageKindText}
}

func sampleMessages() []domain.Message {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Message{
		textMessage("Alice", day, "pizza tonight?", domain.Reaction{Reactor: "Carol", Symbol: "👍"}),
		textMessage("Bob", day.Add(time.Minute), "pizza sounds great", domain.Reaction{Reactor: "Dave", Symbol: "❤"}),
		textMessage("Alice", day.Add(2*time.Minute), "GREAT"),
		textMessage("Bob", day.Add(3*time.Minute), "see you"),
		textMessage("Alice", day.Add(4*time.Minute), "bye", domain.Reaction{Reactor: "Carol", Symbol: "👍"}),
	}
}

func TestAggregationService(t *testing.T) {
	ctx := context.Background()

	for _, parallel := range []bool{false, true} {
		name := "Последовательно"
		if parallel {
			name = "Параллельно"
		}
		t.Run(name, func(t *testing.T) {
			service := NewAggregationService(AggregationOptions{Parallel: parallel}, nil)

			st, err := service.Aggregate(ctx, sampleMessages())
			require.NoError(t, err)

			assert.Equal(t, "UTC", st.Timezone)
			assert.Equal(t, 5, st.TotalMessages)
			assert.Equal(t, 3, st.TotalReactions)
			assert.Equal(t, 1, st.SpanDays)
			assert.Equal(t, "2024-01-01T09:00:00Z", st.FirstMessageAt)
			assert.Equal(t, "2024-01-01T09:04:00Z", st.LastMessageAt)
			assert.Equal(t, []domain.ParticipantCount{{Name: "Alice", Count: 3}, {Name: "Bob", Count: 2}}, st.Participants)
			assert.Equal(t, []domain.ParticipantCount{{Name: "Alice", Count: 2}, {Name: "Bob", Count: 1}}, st.ReactionsReceived)
			assert.Equal(t, []domain.ParticipantCount{{Name: "Carol", Count: 2}, {Name: "Dave", Count: 1}}, st.ReactionsGiven)
			assert.Equal(t, []domain.SymbolCount{{Symbol: "👍", Count: 2}, {Symbol: "❤", Count: 1}}, st.TopReactions)
			assert.Equal(t, domain.WordCount{Word: "great", Count: 2}, st.TopWords[0])
			assert.Equal(t, domain.WordCount{Word: "pizza", Count: 2}, st.TopWords[1])
			assert.Equal(t, []domain.SymbolBreakdown{
				{
					Symbol:     "👍",
					Count:      2,
					ReceivedBy: []domain.ParticipantCount{{Name: "Alice", Count: 2}},
					GivenBy:    []domain.ParticipantCount{{Name: "Carol", Count: 2}},
				},
				{
					Symbol:     "❤",
					Count:      1,
					ReceivedBy: []domain.ParticipantCount{{Name: "Bob", Count: 1}},
					GivenBy:    []domain.ParticipantCount{{Name: "Dave", Count: 1}},
				},
			}, st.ReactionsBySymbol)
			assert.Len(t, st.Hourly, 24)
			assert.Equal(t, []domain.ParticipantCount{{Name: "Alice", Count: 3}, {Name: "Bob", Count: 2}}, st.Hourly[9].BySender)
			assert.Len(t, st.Daily, 1)
			assert.Equal(t, 1, st.Streak.Days)
			assert.Len(t, st.Profiles, 4)
		})
	}

	t.Run("Параллельный и последовательный результаты совпадают", func(t *testing.T) {
		seq, err := NewAggregationService(AggregationOptions{}, nil).Aggregate(ctx, sampleMessages())
		require.NoError(t, err)
		par, err := NewAggregationService(AggregationOptions{Parallel: true}, nil).Aggregate(ctx, sampleMessages())
		require.NoError(t, err)
		assert.Equal(t, seq, par)
	})

	t.Run("Ограничение списка слов", func(t *testing.T) {
		service := NewAggregationService(AggregationOptions{}, nil).WithTopWords(1)
		st, err := service.Aggregate(ctx, sampleMessages())
		require.NoError(t, err)
		assert.Len(t, st.TopWords, 1)
		assert.Equal(t, 1, service.Options().TopWords)
	})

	t.Run("Часовой пояс отчета", func(t *testing.T) {
		loc := time.FixedZone("AEDT", 11*3600)
		st, err := NewAggregationService(AggregationOptions{Location: loc}, nil).Aggregate(ctx, sampleMessages())
		require.NoError(t, err)
		assert.Equal(t, "AEDT", st.Timezone)
		assert.Equal(t, "2024-01-01T20:00:00+11:00", st.FirstMessageAt)
		assert.Equal(t, 5, st.Hourly[20].Count)
	})

	t.Run("Пустая последовательность", func(t *testing.T) {
		for _, parallel := range []bool{false, true} {
			_, err := NewAggregationService(AggregationOptions{Parallel: parallel}, nil).Aggregate(ctx, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInsufficientData))
		}
	})

	t.Run("Отмененный контекст", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewAggregationService(AggregationOptions{}, nil).Aggregate(cancelled, sampleMessages())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
