package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger-chat-stats/internal/domain"
)

func TestAssemblerService(t *testing.T) {
	chat := &domain.LoadedChat{ChatID: "friends", Title: "Friends"}
	report := domain.NormalizationReport{Input: 6, Kept: 5, Skipped: 1, Reasons: map[string]int{domain.SkipMissingSender: 1}}

	t.Run("Три сообщения Alice и два Bob за один день", func(t *testing.T) {
		day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		messages := []domain.Message{
			textMessage("Alice", day, "one"),
			textMessage("Alice", day.Add(time.Minute), "two"),
			textMessage("Bob", day.Add(2*time.Minute), "three"),
			textMessage("Alice", day.Add(3*time.Minute), "four"),
			textMessage("Bob", day.Add(4*time.Minute), "five"),
		}
		st, err := NewAggregationService(AggregationOptions{}, nil).Aggregate(context.Background(), messages)
		require.NoError(t, err)

		result := NewAssemblerService(DefaultAveragePrecision).Assemble(chat, report, st)
		assert.Equal(t, "friends", result.ChatID)
		assert.Equal(t, "Friends", result.Title)
		assert.Equal(t, 5, result.TotalMessages)
		assert.Equal(t, 5.0, result.AverageMessagesPerDay)
		assert.Equal(t, []domain.ParticipantCount{{Name: "Alice", Count: 3}, {Name: "Bob", Count: 2}}, result.Participants)
		assert.Equal(t, []domain.KindCount{
			{Kind: domain.MessageKindText, Count: 5},
			{Kind: domain.MessageKindMedia, Count: 0},
			{Kind: domain.MessageKindOther, Count: 0},
		}, result.MessageKinds)
		assert.Empty(t, result.ReactionsReceived)
		assert.NotNil(t, result.ReactionsReceived)
		assert.Equal(t, report, result.Report)
	})

	t.Run("Округление среднего и процентов", func(t *testing.T) {
		st := &domain.Statistics{
			TotalMessages: 10,
			SpanDays:      3,
			Profiles: []domain.ParticipantProfile{
				{Name: "Alice", ShoutingPercentage: 100.0 / 3, ReceivedShare: 2.0 / 3},
			},
		}

		result := NewAssemblerService(DefaultAveragePrecision).Assemble(chat, report, st)
		assert.Equal(t, 3.3, result.AverageMessagesPerDay)
		assert.Equal(t, 33.33, result.Profiles[0].ShoutingPercentage)
		assert.Equal(t, 0.67, result.Profiles[0].ReceivedShare)
		assert.InDelta(t, 100.0/3, st.Profiles[0].ShoutingPercentage, 1e-9, "Входные данные не должны изменяться")

		result = NewAssemblerService(2).Assemble(chat, report, st)
		assert.Equal(t, 3.33, result.AverageMessagesPerDay)

		result = NewAssemblerService(0).Assemble(chat, report, st)
		assert.Equal(t, 3.0, result.AverageMessagesPerDay)
	})

	t.Run("Нулевой диапазон дает среднее, равное общему числу", func(t *testing.T) {
		result := NewAssemblerService(-1).Assemble(chat, report, &domain.Statistics{TotalMessages: 7})
		assert.Equal(t, 7.0, result.AverageMessagesPerDay)
	})

	t.Run("Сериализация детерминирована", func(t *testing.T) {
		messages := sampleMessages()
		st1, err := NewAggregationService(AggregationOptions{Parallel: true}, nil).Aggregate(context.Background(), messages)
		require.NoError(t, err)
		st2, err := NewAggregationService(AggregationOptions{Parallel: true}, nil).Aggregate(context.Background(), messages)
		require.NoError(t, err)

		assembler := NewAssemblerService(DefaultAveragePrecision)
		first, err := json.Marshal(assembler.Assemble(chat, report, st1))
		require.NoError(t, err)
		second, err := json.Marshal(assembler.Assemble(chat, report, st2))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})
}
